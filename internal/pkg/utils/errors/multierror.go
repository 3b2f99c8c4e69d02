package errors

import (
	"errors"
	"strings"
)

// MultiError is a list of errors reported together, for example all validation failures of one value.
type MultiError interface {
	error
	Len() int
	Append(errs ...error)
	ErrorOrNil() error
	WrappedErrors() []error
	Unwrap() []error
}

type multiError struct {
	errs []error
}

func NewMultiError() MultiError {
	return &multiError{}
}

func (e *multiError) Len() int {
	return len(e.errs)
}

func (e *multiError) Append(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		var sub MultiError
		if errors.As(err, &sub) {
			e.errs = append(e.errs, sub.WrappedErrors()...)
		} else {
			e.errs = append(e.errs, err)
		}
	}
}

// ErrorOrNil returns nil if the container is empty, the single error if it
// contains exactly one, otherwise the container itself.
func (e *multiError) ErrorOrNil() error {
	switch len(e.errs) {
	case 0:
		return nil
	case 1:
		return e.errs[0]
	default:
		return e
	}
}

func (e *multiError) WrappedErrors() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

func (e *multiError) Unwrap() []error {
	return e.WrappedErrors()
}

func (e *multiError) Error() string {
	switch len(e.errs) {
	case 0:
		return ""
	case 1:
		return e.errs[0].Error()
	}
	var b strings.Builder
	b.WriteString("multiple errors occurred:")
	for _, err := range e.errs {
		b.WriteString("\n- ")
		b.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n  "))
	}
	return b.String()
}
