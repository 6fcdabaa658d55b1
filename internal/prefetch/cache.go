// ABOUTME: Short-lived de-duplicating cache for partner lookups.
// ABOUTME: Concurrent callers for one key share a single in-flight request.
package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a resolved value stays cached.
const DefaultTTL = 5 * time.Second

// Cache holds resolved values for a fixed TTL and collapses concurrent
// lookups of the same key into one call.
type Cache[T any] struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry[T]
	gen     uint64
	// evicted holds, per key, the generation of its last Evict. A lookup
	// that started before it must not store its result.
	evicted map[string]uint64
}

type entry[T any] struct {
	value T
	gen   uint64
	timer *time.Timer
}

// New creates a cache. A non-positive ttl uses DefaultTTL.
func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		evicted: make(map[string]uint64),
	}
}

// Key joins the parts of a composite cache key.
func Key(beneficiaryUUID, clientUUID string) string {
	return beneficiaryUUID + ":" + clientUUID
}

// Get returns the cached value for key, if any.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

// Do returns the cached value for key or joins the in-flight lookup,
// starting one with fn when there is none. fn runs detached from ctx
// cancellation so one caller leaving does not fail the others; ctx only
// bounds how long this caller waits.
func (c *Cache[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		epoch := c.epoch(key)
		v, err := fn(detached)
		if err != nil {
			return v, err
		}
		c.store(key, v, epoch)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("prefetch %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

func (c *Cache[T]) epoch(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evicted[key]
}

// store caches v unless key was evicted after the lookup captured epoch.
func (c *Cache[T]) store(key string, v T, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.evicted[key] != epoch {
		return
	}
	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.entries[key] = entry[T]{
		value: v,
		gen:   gen,
		timer: time.AfterFunc(c.ttl, func() { c.expire(key, gen) }),
	}
}

// expire removes key only if it still holds the entry the timer was set for.
func (c *Cache[T]) expire(key string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.gen == gen {
		delete(c.entries, key)
	}
}

// Evict drops the cached value for key and detaches any in-flight lookup
// so the next caller starts a new one. A lookup already in flight still
// answers its callers but no longer caches its result.
func (c *Cache[T]) Evict(key string) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}
	c.gen++
	c.evicted[key] = c.gen
	c.mu.Unlock()
	c.group.Forget(key)
}

// Len returns the number of cached values.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
