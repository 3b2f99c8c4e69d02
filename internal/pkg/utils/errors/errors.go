// Package errors provides error utilities used across the project:
// constructors compatible with the standard library, wrapping helpers
// and a multi-error container.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Errorf formats an error, %w verb is supported.
func Errorf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

// Wrapf wraps the error with a new formatted message, the original error is preserved for Unwrap/Is/As.
func Wrapf(err error, format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, err)...)
}

// PrefixError adds a prefix to the error message.
func PrefixError(err error, prefix string) error {
	return fmt.Errorf("%s: %w", prefix, err)
}

// PrefixErrorf adds a formatted prefix to the error message.
func PrefixErrorf(err error, format string, a ...any) error {
	return PrefixError(err, fmt.Sprintf(format, a...))
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}
