package observer

import (
	"sync"

	"github.com/streamforge/streamforge/internal/pkg/log"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/definition"
)

// PropertiesCache mirrors the properties of all streams in the namespace.
// It is updated from watch events and read by the convergence waits.
type PropertiesCache struct {
	logger  log.Logger
	lock    sync.RWMutex
	streams map[string]definition.Properties
}

func NewPropertiesCache(logger log.Logger) *PropertiesCache {
	return &PropertiesCache{
		logger:  logger,
		streams: make(map[string]definition.Properties),
	}
}

// HandleChildAdded stores the stream properties.
// A payload that cannot be decoded is logged and the entry is dropped,
// so a later wait fails fast instead of working with stale data.
func (c *PropertiesCache) HandleChildAdded(streamName string, payload []byte) {
	props, err := definition.DecodeProperties(payload)
	if err != nil {
		c.logger.Errorf(`cannot decode properties of stream "%s": %s`, streamName, err)
		c.lock.Lock()
		delete(c.streams, streamName)
		c.lock.Unlock()
		return
	}

	c.lock.Lock()
	c.streams[streamName] = props
	c.lock.Unlock()
}

// HandleChildRemoved drops the stream entry, it is a no-op for an unknown stream.
func (c *PropertiesCache) HandleChildRemoved(streamName string) {
	c.lock.Lock()
	delete(c.streams, streamName)
	c.lock.Unlock()
}

// Lookup returns the cached properties of the stream.
func (c *PropertiesCache) Lookup(streamName string) (definition.Properties, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	props, found := c.streams[streamName]
	return props, found
}

// Reset drops all entries, used when the watch stream is restarted.
func (c *PropertiesCache) Reset() {
	c.lock.Lock()
	c.streams = make(map[string]definition.Properties)
	c.lock.Unlock()
}

// Len returns the number of cached streams.
func (c *PropertiesCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.streams)
}
