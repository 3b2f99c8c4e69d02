// Package coordination defines access to the hierarchical coordination
// namespace in which stream topology and deployment state are recorded.
//
// The namespace is a tree of nodes, each node has an optional payload and
// zero or more children. Reads are strongly consistent, mutations are
// performed by external processes (control plane, deployment workers).
package coordination

import (
	"context"
	"strings"
)

// Stat describes the observed state of one namespace node.
type Stat struct {
	Exists      bool
	NumChildren int
}

// Namespace provides point-in-time reads of the coordination namespace.
type Namespace interface {
	// Stat returns existence and the direct child count of the node at the path.
	Stat(ctx context.Context, path string) (Stat, error)
}

type ChildEventType int

const (
	ChildAdded ChildEventType = iota
	ChildRemoved
)

func (t ChildEventType) String() string {
	switch t {
	case ChildAdded:
		return "added"
	case ChildRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ChildEvent is a notification about one direct child of a watched prefix.
type ChildEvent struct {
	Type ChildEventType
	// Path is the full path of the child node.
	Path string
	// Payload is the child node payload, empty for ChildRemoved.
	Payload []byte
}

// WatchResponse is a batch of child events delivered by a Watcher.
type WatchResponse struct {
	Events []ChildEvent
	// Created is true for the response carrying the initial listing of the
	// watched prefix, existing children are reported as ChildAdded events.
	Created bool
	// Restart is true when the watch stream was recreated after a failure,
	// the response then carries a fresh full listing and consumers must
	// reset state derived from earlier events.
	Restart bool
	// InitErr is set when the initial listing cannot be obtained, the
	// stream then terminates.
	InitErr error
}

// Watcher delivers add/remove notifications for direct children of a subtree.
type Watcher interface {
	// WatchChildren streams child events of the prefix. The first response
	// carries the initial listing (Created=true). The channel is closed when
	// the context is cancelled or initialization fails.
	WatchChildren(ctx context.Context, prefix string) <-chan WatchResponse
}

// ChildName returns the last path segment if the path is a direct child of the prefix.
func ChildName(prefix, path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, prefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
