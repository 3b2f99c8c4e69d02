package etcdns_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	etcd "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/namespace"

	"github.com/streamforge/streamforge/internal/pkg/coordination"
	"github.com/streamforge/streamforge/internal/pkg/coordination/etcdns"
	"github.com/streamforge/streamforge/internal/pkg/log"
)

// clientForTest connects to the etcd instance from the UNIT_ETCD_ENDPOINT env,
// all keys are isolated under a unique prefix.
func clientForTest(t *testing.T) *etcd.Client {
	t.Helper()

	endpoint := os.Getenv("UNIT_ETCD_ENDPOINT")
	if endpoint == "" {
		t.Skip("UNIT_ETCD_ENDPOINT is not set")
	}

	client, err := etcd.New(etcd.Config{
		Context:     context.Background(),
		Endpoints:   []string{endpoint},
		DialTimeout: 2 * time.Second,
		Username:    os.Getenv("UNIT_ETCD_USERNAME"),
		Password:    os.Getenv("UNIT_ETCD_PASSWORD"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	prefix := fmt.Sprintf("unit-%d/", time.Now().UnixNano())
	client.KV = namespace.NewKV(client.KV, prefix)
	client.Watcher = namespace.NewWatcher(client.Watcher, prefix)
	return client
}

func TestClient_Stat(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	etcdClient := clientForTest(t)
	client := etcdns.New(log.NewDebugLogger(), etcdClient)

	// Missing node
	stat, err := client.Stat(ctx, "streams/orders")
	require.NoError(t, err)
	assert.Equal(t, coordination.Stat{Exists: false, NumChildren: 0}, stat)

	// Node without children
	_, err = etcdClient.Put(ctx, "streams/orders", `{"definition":"http | log"}`)
	require.NoError(t, err)
	stat, err = client.Stat(ctx, "streams/orders")
	require.NoError(t, err)
	assert.Equal(t, coordination.Stat{Exists: true, NumChildren: 0}, stat)

	// Two modules, one with two status children, still two direct children
	for _, key := range []string{
		"streams/orders/source/http/status.1",
		"streams/orders/source/http/status.2",
		"streams/orders/sink/log/status.1",
	} {
		_, err = etcdClient.Put(ctx, key, "")
		require.NoError(t, err)
	}
	stat, err = client.Stat(ctx, "streams/orders")
	require.NoError(t, err)
	assert.Equal(t, coordination.Stat{Exists: true, NumChildren: 2}, stat)

	// A node implied only by its children exists
	stat, err = client.Stat(ctx, "streams/orders/source/http")
	require.NoError(t, err)
	assert.Equal(t, coordination.Stat{Exists: true, NumChildren: 2}, stat)
}

func TestClient_WatchChildren(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	etcdClient := clientForTest(t)
	client := etcdns.New(log.NewDebugLogger(), etcdClient)

	// Existing stream before the watch starts
	_, err := etcdClient.Put(ctx, "streams/orders", `{"definition":"http | log"}`)
	require.NoError(t, err)

	ch := client.WatchChildren(ctx, "streams")

	// Initial listing
	resp := receive(t, ch)
	require.NoError(t, resp.InitErr)
	assert.True(t, resp.Created)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, coordination.ChildAdded, resp.Events[0].Type)
	assert.Equal(t, "streams/orders", resp.Events[0].Path)

	// Added child
	_, err = etcdClient.Put(ctx, "streams/invoices", `{"definition":"file | db"}`)
	require.NoError(t, err)
	resp = receive(t, ch)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, coordination.ChildAdded, resp.Events[0].Type)
	assert.Equal(t, "streams/invoices", resp.Events[0].Path)

	// Deeper keys are not children of the watched prefix
	_, err = etcdClient.Put(ctx, "streams/invoices/source/file", "")
	require.NoError(t, err)

	// Removed child
	_, err = etcdClient.Delete(ctx, "streams/invoices")
	require.NoError(t, err)
	resp = receive(t, ch)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, coordination.ChildRemoved, resp.Events[0].Type)
	assert.Equal(t, "streams/invoices", resp.Events[0].Path)
}

func receive(t *testing.T, ch <-chan coordination.WatchResponse) coordination.WatchResponse {
	t.Helper()
	select {
	case resp := <-ch:
		return resp
	case <-time.After(10 * time.Second):
		t.Fatal("timeout while waiting for watch response")
		return coordination.WatchResponse{}
	}
}
