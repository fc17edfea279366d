// Package refcache memoizes reference data for the lifetime of one wizard.
//
// A Cache holds entries that are valid while now - fetchedAt < ttl. Concurrent misses
// for the same key share one fetch. InvalidateAll bumps a generation counter so a fetch
// started before the reset does not repopulate the cache.
package refcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"orderwizard/internal/core/domain/model/kernel"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is a TTL cache of one reference-data domain.
type Cache[K comparable, V any] struct {
	name  string
	ttl   time.Duration
	clock kernel.Clock

	mu         sync.RWMutex
	entries    map[K]entry[V]
	generation uint64

	group singleflight.Group
}

func New[K comparable, V any](name string, ttl time.Duration, clock kernel.Clock) *Cache[K, V] {
	if clock == nil {
		clock = kernel.SystemClock{}
	}
	return &Cache[K, V]{
		name:    name,
		ttl:     ttl,
		clock:   clock,
		entries: make(map[K]entry[V]),
	}
}

func (c *Cache[K, V]) Name() string {
	return c.name
}

// Get returns the cached value for key, calling fetch on a miss or expiry.
// A caller whose ctx ends stops waiting; the shared fetch keeps running for the others.
func (c *Cache[K, V]) Get(ctx context.Context, key K, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Peek(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	ch := c.group.DoChan(fmt.Sprintf("%d/%v", gen, key), func() (any, error) {
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		c.store(key, v, gen)
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Peek returns a valid cached value without fetching.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.valid(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value fetched elsewhere.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.clock.Now()}
}

func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll drops every entry and orphans in-flight fetches.
func (c *Cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
	c.generation++
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !c.valid(e) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) store(key K, v V, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.entries[key] = entry[V]{value: v, fetchedAt: c.clock.Now()}
}

func (c *Cache[K, V]) valid(e entry[V]) bool {
	return c.clock.Now().Sub(e.fetchedAt) < c.ttl
}
