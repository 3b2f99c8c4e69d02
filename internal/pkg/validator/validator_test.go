package validator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/streamforge/streamforge/internal/pkg/validator"
)

type testConfig struct {
	Interval time.Duration `configKey:"interval" validate:"required,gt=0"`
	Timeout  time.Duration `configKey:"timeout" validate:"required,gtefield=Interval"`
	Name     string        `configKey:"name" validate:"required"`
}

func TestValidate_Ok(t *testing.T) {
	t.Parallel()
	value := testConfig{Interval: 100 * time.Millisecond, Timeout: 5 * time.Second, Name: "orders"}
	assert.NoError(t, validator.Validate(context.Background(), value))
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()
	value := testConfig{Timeout: time.Second}
	err := validator.Validate(context.Background(), value)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "interval")
		assert.Contains(t, err.Error(), "name")
	}
}
