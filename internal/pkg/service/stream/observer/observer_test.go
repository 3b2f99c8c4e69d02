package observer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamforge/streamforge/internal/pkg/coordination"
	"github.com/streamforge/streamforge/internal/pkg/coordination/coordinationtest"
	"github.com/streamforge/streamforge/internal/pkg/log"
	"github.com/streamforge/streamforge/internal/pkg/service/stream"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/definition"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/observer"
	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

func TestObserver_Start_MirrorsNamespace(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ns := coordinationtest.NewFakeNamespace()
	ns.CreateNode("streams/orders", []byte(`{"definition":"http | log"}`))
	ns.CreateNode("streams/invoices", []byte(`{"definition":"file | file"}`))

	obs := observer.New(log.NewNopLogger(), clockwork.NewFakeClock(), stream.NewConfig(), ns, ns, definition.NewPipelineResolver())
	wg := &sync.WaitGroup{}
	initErr := obs.Start(ctx, wg)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	require.NoError(t, <-initErr)

	// Existing streams are mirrored by the initial listing.
	props, found := obs.Properties("orders")
	assert.True(t, found)
	assert.Equal(t, definition.Properties{"definition": "http | log"}, props)
	_, found = obs.Properties("invoices")
	assert.True(t, found)

	// A new stream appears in the cache.
	ns.CreateNode("streams/payments", []byte(`{"definition":"http | filter | log"}`))
	assert.Eventually(t, func() bool {
		_, found := obs.Properties("payments")
		return found
	}, 5*time.Second, time.Millisecond)

	// Deployment nodes are not direct children, they do not touch the cache.
	ns.CreateNode("streams/payments/source/http/status.1", []byte(`deployed`))
	props, found = obs.Properties("payments")
	assert.True(t, found)
	assert.Equal(t, definition.Properties{"definition": "http | filter | log"}, props)

	// A destroyed stream disappears from the cache.
	ns.DeleteNode("streams/orders")
	assert.Eventually(t, func() bool {
		_, found := obs.Properties("orders")
		return !found
	}, 5*time.Second, time.Millisecond)
}

// scriptedWatcher replays a prepared sequence of watch responses.
type scriptedWatcher struct {
	ch chan coordination.WatchResponse
}

func (w *scriptedWatcher) WatchChildren(ctx context.Context, _ string) <-chan coordination.WatchResponse {
	out := make(chan coordination.WatchResponse)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case resp, ok := <-w.ch:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- resp:
				}
			}
		}
	}()
	return out
}

func TestObserver_Start_InitError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &scriptedWatcher{ch: make(chan coordination.WatchResponse, 1)}
	w.ch <- coordination.WatchResponse{InitErr: errors.New("namespace unavailable")}

	ns := coordinationtest.NewFakeNamespace()
	obs := observer.New(log.NewNopLogger(), clockwork.NewFakeClock(), stream.NewConfig(), ns, w, definition.NewPipelineResolver())
	wg := &sync.WaitGroup{}
	initErr := obs.Start(ctx, wg)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	err := <-initErr
	require.Error(t, err)
	assert.Equal(t, "namespace unavailable", err.Error())
}

func TestObserver_Start_RestartReloadsCache(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &scriptedWatcher{ch: make(chan coordination.WatchResponse, 2)}
	w.ch <- coordination.WatchResponse{
		Created: true,
		Events: []coordination.ChildEvent{
			{Type: coordination.ChildAdded, Path: "streams/orders", Payload: []byte(`{"definition":"http | log"}`)},
		},
	}

	ns := coordinationtest.NewFakeNamespace()
	obs := observer.New(log.NewNopLogger(), clockwork.NewFakeClock(), stream.NewConfig(), ns, w, definition.NewPipelineResolver())
	wg := &sync.WaitGroup{}
	initErr := obs.Start(ctx, wg)
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})
	require.NoError(t, <-initErr)

	_, found := obs.Properties("orders")
	require.True(t, found)

	// A restarted watch carries a fresh listing, stale entries are dropped.
	w.ch <- coordination.WatchResponse{
		Created: true,
		Restart: true,
		Events: []coordination.ChildEvent{
			{Type: coordination.ChildAdded, Path: "streams/invoices", Payload: []byte(`{"definition":"file | file"}`)},
		},
	}
	assert.Eventually(t, func() bool {
		_, found := obs.Properties("invoices")
		return found
	}, 5*time.Second, time.Millisecond)
	_, found = obs.Properties("orders")
	assert.False(t, found)
}
