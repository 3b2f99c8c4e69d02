// Package coordinationtest provides an in-memory coordination namespace for tests.
package coordinationtest

import (
	"context"
	"strings"
	"sync"

	"github.com/streamforge/streamforge/internal/pkg/coordination"
)

// FakeNamespace implements coordination.Namespace and coordination.Watcher
// on an in-memory node map. Mutations notify all active watchers, so tests
// can simulate external control-plane and worker processes.
type FakeNamespace struct {
	lock      sync.Mutex
	nodes     map[string][]byte
	statErrs  map[string]error
	watchers  []*fakeWatcher
	statCalls int
}

type fakeWatcher struct {
	prefix string
	ch     chan coordination.WatchResponse
	done   <-chan struct{}
}

func NewFakeNamespace() *FakeNamespace {
	return &FakeNamespace{
		nodes:    make(map[string][]byte),
		statErrs: make(map[string]error),
	}
}

// CreateNode inserts or overwrites a node and notifies watchers of its parent.
func (f *FakeNamespace) CreateNode(path string, payload []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.nodes[path] = payload
	f.notify(coordination.ChildEvent{Type: coordination.ChildAdded, Path: path, Payload: payload})
}

// DeleteNode removes the node and all its descendants, watchers of the
// node's parent are notified about the node itself.
func (f *FakeNamespace) DeleteNode(path string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	for p := range f.nodes {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(f.nodes, p)
		}
	}
	f.notify(coordination.ChildEvent{Type: coordination.ChildRemoved, Path: path})
}

// SetStatError injects an error returned by Stat for the given path.
func (f *FakeNamespace) SetStatError(path string, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.statErrs[path] = err
}

// StatCalls returns how many times Stat was invoked.
func (f *FakeNamespace) StatCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.statCalls
}

func (f *FakeNamespace) Stat(_ context.Context, path string) (coordination.Stat, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.statCalls++
	if err := f.statErrs[path]; err != nil {
		return coordination.Stat{}, err
	}

	// Same semantics as the etcd implementation: deeper nodes imply their
	// parents, so a node with descendants exists even without its own entry.
	out := coordination.Stat{}
	_, out.Exists = f.nodes[path]
	seen := make(map[string]struct{})
	for p := range f.nodes {
		if rest, ok := strings.CutPrefix(p, path+"/"); ok {
			name, _, _ := strings.Cut(rest, "/")
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	out.NumChildren = len(seen)
	if out.NumChildren > 0 {
		out.Exists = true
	}
	return out, nil
}

func (f *FakeNamespace) WatchChildren(ctx context.Context, prefix string) <-chan coordination.WatchResponse {
	f.lock.Lock()
	defer f.lock.Unlock()

	// Initial listing
	initial := coordination.WatchResponse{Created: true}
	for p, payload := range f.nodes {
		if _, ok := coordination.ChildName(prefix, p); ok {
			initial.Events = append(initial.Events, coordination.ChildEvent{
				Type: coordination.ChildAdded, Path: p, Payload: payload,
			})
		}
	}

	w := &fakeWatcher{prefix: prefix, ch: make(chan coordination.WatchResponse, 128), done: ctx.Done()}
	w.ch <- initial
	f.watchers = append(f.watchers, w)

	out := make(chan coordination.WatchResponse)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case resp := <-w.ch:
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

func (f *FakeNamespace) notify(event coordination.ChildEvent) {
	for _, w := range f.watchers {
		if _, ok := coordination.ChildName(w.prefix, event.Path); !ok {
			continue
		}
		select {
		case <-w.done:
		case w.ch <- coordination.WatchResponse{Events: []coordination.ChildEvent{event}}:
		}
	}
}
