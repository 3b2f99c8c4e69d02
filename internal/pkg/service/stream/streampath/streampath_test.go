package streampath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamforge/streamforge/internal/pkg/service/stream/streampath"
)

func TestPaths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "streams/orders", streampath.Stream("orders"))
	assert.Equal(t, "streams/orders/source/http", streampath.ModuleDeployment("orders", "source", "http"))

	name, ok := streampath.StreamName("streams/orders")
	assert.True(t, ok)
	assert.Equal(t, "orders", name)

	_, ok = streampath.StreamName("streams/orders/source/http")
	assert.False(t, ok)
}
