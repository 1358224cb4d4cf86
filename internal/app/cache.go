package app

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long an aggregated catalog stays fresh.
const DefaultCacheTTL = 10 * time.Minute

// ResultCache holds the last successfully computed value and when it was captured.
// An entry is never partially updated and is only invalidated by age or Clear.
// Hits return the stored value itself; callers must treat it as read-only.
type ResultCache[T any] struct {
	mu         sync.RWMutex
	ttl        time.Duration
	now        func() time.Time
	payload    T
	capturedAt time.Time
	filled     bool
}

// NewResultCache creates an empty cache. A non-positive ttl means DefaultCacheTTL;
// a nil clock means time.Now.
func NewResultCache[T any](ttl time.Duration, clock func() time.Time) *ResultCache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	if clock == nil {
		clock = time.Now
	}

	return &ResultCache[T]{ttl: ttl, now: clock}
}

// Lookup returns the stored value if one exists and is younger than the TTL.
func (c *ResultCache[T]) Lookup() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.filled || c.now().Sub(c.capturedAt) >= c.ttl {
		var zero T
		return zero, false
	}

	return c.payload, true
}

// Store overwrites the entry and stamps it with the current time.
func (c *ResultCache[T]) Store(payload T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payload = payload
	c.capturedAt = c.now()
	c.filled = true
}

// Clear empties the cache so the next Lookup misses.
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.payload = zero
	c.capturedAt = time.Time{}
	c.filled = false
}

// TTL returns the configured freshness window.
func (c *ResultCache[T]) TTL() time.Duration {
	return c.ttl
}
