// Package observer watches the streams namespace and provides convergence
// waits for stream lifecycle operations.
//
// The observer keeps an event-driven cache of stream properties and polls
// the coordination namespace until the observed state converges to the
// requested one, or the wait deadline passes.
package observer

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/streamforge/streamforge/internal/pkg/coordination"
	"github.com/streamforge/streamforge/internal/pkg/log"
	"github.com/streamforge/streamforge/internal/pkg/service/stream"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/definition"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/streampath"
)

type Observer struct {
	logger   log.Logger
	clock    clockwork.Clock
	config   stream.Config
	ns       coordination.Namespace
	watcher  coordination.Watcher
	resolver definition.Resolver
	cache    *PropertiesCache
}

func New(
	logger log.Logger,
	clock clockwork.Clock,
	config stream.Config,
	ns coordination.Namespace,
	watcher coordination.Watcher,
	resolver definition.Resolver,
) *Observer {
	return &Observer{
		logger:   logger,
		clock:    clock,
		config:   config,
		ns:       ns,
		watcher:  watcher,
		resolver: resolver,
		cache:    NewPropertiesCache(logger),
	}
}

// Start begins watching the streams namespace and keeps the properties
// cache in sync until the context is cancelled.
//
// The returned channel receives the result of the initial synchronization:
// nil once the cache holds a full snapshot, or the error that prevented it.
func (o *Observer) Start(ctx context.Context, wg *sync.WaitGroup) <-chan error {
	initErr := make(chan error, 1)
	responses := o.watcher.WatchChildren(ctx, streampath.Root)

	initDone := false
	markInit := func(err error) {
		if initDone {
			return
		}
		initDone = true
		if err != nil {
			initErr <- err
		}
		close(initErr)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer markInit(context.Canceled)
		for resp := range responses {
			if resp.InitErr != nil {
				markInit(resp.InitErr)
				return
			}
			if resp.Restart {
				o.cache.Reset()
				o.logger.Infof(`watch of "%s" restarted, cache reloaded`, streampath.Root)
			}
			for _, event := range resp.Events {
				o.applyEvent(event)
			}
			if resp.Created {
				markInit(nil)
			}
		}
	}()

	return initErr
}

// Properties returns the cached properties of the stream.
func (o *Observer) Properties(streamName string) (definition.Properties, bool) {
	return o.cache.Lookup(streamName)
}

func (o *Observer) applyEvent(event coordination.ChildEvent) {
	streamName, ok := streampath.StreamName(event.Path)
	if !ok {
		return
	}
	o.logger.Debugf(`stream "%s" %s`, streamName, event.Type)
	switch event.Type {
	case coordination.ChildAdded:
		o.cache.HandleChildAdded(streamName, event.Payload)
	case coordination.ChildRemoved:
		o.cache.HandleChildRemoved(streamName)
	}
}
