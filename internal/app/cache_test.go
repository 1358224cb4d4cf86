package app

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestNewResultCache_Defaults(t *testing.T) {
	cache := NewResultCache[[]string](0, nil)

	assert.Equal(t, DefaultCacheTTL, cache.TTL())

	_, ok := cache.Lookup()
	assert.False(t, ok)
}

func TestResultCache_FreshWithinTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache[[]string](time.Minute, clock.Now)

	payload := []string{"bulbasaur"}
	cache.Store(payload)

	clock.Advance(59 * time.Second)
	got, ok := cache.Lookup()

	require.True(t, ok)
	assert.Equal(t, payload, got)
	assert.True(t, &payload[0] == &got[0], "hit should return the stored slice")
}

func TestResultCache_StaleAtTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache[[]string](time.Minute, clock.Now)

	cache.Store([]string{"bulbasaur"})
	clock.Advance(time.Minute)

	got, ok := cache.Lookup()
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestResultCache_StoreRestampsEntry(t *testing.T) {
	clock := newFakeClock()
	cache := NewResultCache[[]string](time.Minute, clock.Now)

	cache.Store([]string{"old"})
	clock.Advance(50 * time.Second)
	cache.Store([]string{"new"})
	clock.Advance(50 * time.Second)

	got, ok := cache.Lookup()
	require.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
}

func TestResultCache_Clear(t *testing.T) {
	cache := NewResultCache[[]string](time.Hour, nil)

	cache.Store([]string{"bulbasaur"})
	cache.Clear()

	_, ok := cache.Lookup()
	assert.False(t, ok)
}

func TestResultCache_EmptyPayloadIsStillAHit(t *testing.T) {
	cache := NewResultCache[[]string](time.Hour, nil)

	cache.Store([]string{})

	got, ok := cache.Lookup()
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	cache := NewResultCache[[]string](time.Hour, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			if i%10 == 0 {
				cache.Clear()
			}
			cache.Store([]string{"x"})
			_, _ = cache.Lookup()
		})
	}
	wg.Wait()

	_, ok := cache.Lookup()
	assert.True(t, ok)
}
