package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

func TestWrapf(t *testing.T) {
	t.Parallel()
	original := errors.New("original error")
	wrapped := errors.Wrapf(original, "operation %s failed", "read")
	assert.Equal(t, "operation read failed: original error", wrapped.Error())
	assert.True(t, errors.Is(wrapped, original))
}

func TestPrefixError(t *testing.T) {
	t.Parallel()
	err := errors.PrefixErrorf(errors.New("file not found"), "cannot load %s", "config")
	assert.Equal(t, "cannot load config: file not found", err.Error())
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	e := errors.NewMultiError()
	assert.NoError(t, e.ErrorOrNil())
	assert.Equal(t, 0, e.Len())

	// Nil errors are skipped
	e.Append(nil)
	assert.NoError(t, e.ErrorOrNil())

	// Single error is unwrapped
	err1 := errors.New("first")
	e.Append(err1)
	assert.Same(t, err1, e.ErrorOrNil())

	// Nested multi-errors are flattened
	nested := errors.NewMultiError()
	nested.Append(errors.New("second"), errors.New("third"))
	e.Append(nested.ErrorOrNil())
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, "multiple errors occurred:\n- first\n- second\n- third", e.ErrorOrNil().Error())
}
