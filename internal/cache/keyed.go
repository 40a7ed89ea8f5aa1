package cache

import (
	"fmt"
	"sync"

	"github.com/juju/clock"

	"stellar-client-go/internal/domain/eventbus"
)

// Publisher receives change notifications. *eventbus.Bus satisfies it.
type Publisher interface {
	Publish(topic string, args ...any)
}

// Recorder receives transition counts. *observability.Metrics satisfies it.
type Recorder interface {
	CacheTransition(cache, status string)
	FetchDeduplicated(cache string)
}

// Options are shared by every cache.
type Options struct {
	Clock   clock.Clock
	Bus     Publisher
	Metrics Recorder
}

func (o Options) now() clock.Clock {
	if o.Clock == nil {
		return clock.WallClock
	}
	return o.Clock
}

// notify publishes after the caller released its lock.
func (o Options) notify(cache, key string, status Status) {
	if o.Metrics != nil {
		o.Metrics.CacheTransition(cache, status.String())
	}
	if o.Bus != nil {
		o.Bus.Publish(eventbus.TopicCacheChanged, eventbus.CacheChanged{
			Cache:  cache,
			Key:    key,
			Status: status.String(),
		})
	}
}

func (o Options) deduplicated(cache string) {
	if o.Metrics != nil {
		o.Metrics.FetchDeduplicated(cache)
	}
}

// Keyed holds one Entry per key. Missing keys read as an idle entry.
type Keyed[K comparable, D any] struct {
	name string
	opts Options

	mu      sync.Mutex
	entries map[K]Entry[D]
}

func NewKeyed[K comparable, D any](name string, opts Options) *Keyed[K, D] {
	return &Keyed[K, D]{name: name, opts: opts, entries: map[K]Entry[D]{}}
}

func (c *Keyed[K, D]) Name() string { return c.name }

// Get returns the entry for key.
func (c *Keyed[K, D]) Get(key K) Entry[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

// Dispatch applies in to the entry for key as one critical section and
// returns the resulting entry. applied is false when the intent was a no-op,
// such as a FetchStart for a key that is already loading.
func (c *Keyed[K, D]) Dispatch(key K, in Intent[D]) (Entry[D], bool) {
	now := c.opts.now().Now()

	c.mu.Lock()
	next, applied := Reduce(c.entries[key], in, now)
	if applied {
		c.entries[key] = next
	}
	c.mu.Unlock()

	if !applied {
		if _, ok := in.(FetchStart[D]); ok {
			c.opts.deduplicated(c.name)
		}
		return next, false
	}
	c.opts.notify(c.name, fmt.Sprint(key), next.Status)
	return next, true
}
