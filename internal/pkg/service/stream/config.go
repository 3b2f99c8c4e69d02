// Package stream contains configuration shared by the stream service components.
package stream

import (
	"context"
	"time"

	"github.com/streamforge/streamforge/internal/pkg/validator"
)

// Config configures the convergence waits.
type Config struct {
	// PollInterval between namespace checks.
	PollInterval time.Duration `configKey:"pollInterval" validate:"required,gt=0"`
	// WaitTimeout is the overall deadline of one wait call.
	WaitTimeout time.Duration `configKey:"waitTimeout" validate:"required,gtefield=PollInterval"`
}

func NewConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		WaitTimeout:  5 * time.Second,
	}
}

func (c Config) Validate(ctx context.Context) error {
	return validator.Validate(ctx, c)
}
