// Package etcdns implements the coordination namespace on top of etcd.
//
// A namespace node at path "streams/orders" is the etcd key "streams/orders",
// its children are the keys under the "streams/orders/" prefix. etcd has no
// directory nodes, so a node also counts as existing when it has children.
package etcdns

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.etcd.io/etcd/api/v3/mvccpb"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/streamforge/streamforge/internal/pkg/coordination"
	"github.com/streamforge/streamforge/internal/pkg/log"
	"github.com/streamforge/streamforge/internal/pkg/utils/errors"
)

type Client struct {
	logger log.Logger
	client *etcd.Client
}

func New(logger log.Logger, client *etcd.Client) *Client {
	return &Client{logger: logger, client: client}
}

func (c *Client) Stat(ctx context.Context, path string) (coordination.Stat, error) {
	path = normalize(path)
	out := coordination.Stat{}

	resp, err := c.client.Get(ctx, path, etcd.WithCountOnly())
	if err != nil {
		return out, errors.Wrapf(err, `cannot stat node "%s"`, path)
	}
	out.Exists = resp.Count > 0

	children, err := c.client.Get(ctx, path+"/", etcd.WithPrefix(), etcd.WithKeysOnly())
	if err != nil {
		return out, errors.Wrapf(err, `cannot list children of node "%s"`, path)
	}

	// Count distinct direct child segments, deeper keys imply their parents.
	seen := make(map[string]struct{})
	for _, kv := range children.Kvs {
		rest := strings.TrimPrefix(string(kv.Key), path+"/")
		name, _, _ := strings.Cut(rest, "/")
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	out.NumChildren = len(seen)
	if out.NumChildren > 0 {
		out.Exists = true
	}
	return out, nil
}

func (c *Client) WatchChildren(ctx context.Context, prefix string) <-chan coordination.WatchResponse {
	prefix = normalize(prefix)
	out := make(chan coordination.WatchResponse)

	go func() {
		defer close(out)

		retry := newRetryBackoff()
		restart := false
		for {
			err := c.watch(ctx, prefix, restart, out)
			if err == nil || ctx.Err() != nil {
				return
			}

			// The initial listing error is fatal, watch errors are retried.
			var wErr watchError
			if !restart && !errors.As(err, &wErr) {
				send(ctx, out, coordination.WatchResponse{InitErr: err})
				return
			}

			delay := retry.NextBackOff()
			c.logger.Warnf(`watch of "%s" failed, restart in %s: %s`, prefix, delay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				restart = true
			}
		}
	}()

	return out
}

// watchError marks a failure of an established watch stream, it is retried
// with a fresh listing, unlike a failure of the initial listing itself.
type watchError struct {
	err error
}

func (e watchError) Error() string {
	return e.err.Error()
}

func (e watchError) Unwrap() error {
	return e.err
}

func (c *Client) watch(ctx context.Context, prefix string, restart bool, out chan coordination.WatchResponse) error {
	// List existing children.
	resp, err := c.client.Get(ctx, prefix+"/", etcd.WithPrefix())
	if err != nil {
		return errors.Wrapf(err, `cannot list "%s"`, prefix)
	}

	initial := coordination.WatchResponse{Created: true, Restart: restart}
	for _, kv := range resp.Kvs {
		if _, ok := coordination.ChildName(prefix, string(kv.Key)); !ok {
			continue
		}
		initial.Events = append(initial.Events, coordination.ChildEvent{
			Type: coordination.ChildAdded, Path: string(kv.Key), Payload: kv.Value,
		})
	}
	if !send(ctx, out, initial) {
		return nil
	}

	// Continue watching where the listing ended.
	watchCh := c.client.Watch(ctx, prefix+"/", etcd.WithPrefix(), etcd.WithRev(resp.Header.Revision+1))
	for watchResp := range watchCh {
		if err := watchResp.Err(); err != nil {
			return watchError{err: err}
		}

		batch := coordination.WatchResponse{}
		for _, event := range watchResp.Events {
			key := string(event.Kv.Key)
			if _, ok := coordination.ChildName(prefix, key); !ok {
				continue
			}
			switch event.Type {
			case mvccpb.PUT:
				batch.Events = append(batch.Events, coordination.ChildEvent{
					Type: coordination.ChildAdded, Path: key, Payload: event.Kv.Value,
				})
			case mvccpb.DELETE:
				batch.Events = append(batch.Events, coordination.ChildEvent{
					Type: coordination.ChildRemoved, Path: key,
				})
			}
		}
		if len(batch.Events) > 0 && !send(ctx, out, batch) {
			return nil
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	return watchError{err: errors.New("watch channel unexpectedly closed")}
}

func send(ctx context.Context, out chan coordination.WatchResponse, resp coordination.WatchResponse) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- resp:
		return true
	}
}

func newRetryBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.Multiplier = 2
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0 // retry forever
	b.Reset()
	return b
}

func normalize(path string) string {
	return strings.Trim(path, "/")
}
