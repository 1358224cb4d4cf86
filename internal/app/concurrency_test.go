package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locatorsN(n int) []string {
	locators := make([]string, n)
	for i := range locators {
		locators[i] = fmt.Sprintf("loc-%03d", i)
	}

	return locators
}

func TestMapLimit_PreservesOrder(t *testing.T) {
	in := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	out, err := MapLimit(context.Background(), 4, in, func(_ context.Context, i int) (int, error) {
		time.Sleep(time.Duration(10-i) * time.Millisecond)
		return i * i, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, out)
}

func TestMapLimit_ReturnsFirstErrorUnwrapped(t *testing.T) {
	boom := errors.New("boom")

	out, err := MapLimit(context.Background(), 2, []int{1, 2}, func(_ context.Context, i int) (int, error) {
		if i == 2 {
			return 0, boom
		}
		return i, nil
	})

	assert.Same(t, boom, err)
	assert.Nil(t, out)
}

func TestMapLimit_Empty(t *testing.T) {
	out, err := MapLimit(context.Background(), 3, nil, func(context.Context, string) (int, error) {
		t.Fatal("fn must not run")
		return 0, nil
	})

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFetchInBatches_OrderAndChunking(t *testing.T) {
	locators := locatorsN(7)

	var chunkSizes []int
	results, err := FetchInBatches(context.Background(), 3, locators,
		func(_ context.Context, locator string) (string, error) {
			return "resolved-" + locator, nil
		},
		func(size int, _ time.Duration) { chunkSizes = append(chunkSizes, size) },
	)

	require.NoError(t, err)
	require.Len(t, results, 7)
	for i, locator := range locators {
		assert.Equal(t, "resolved-"+locator, results[i])
	}
	assert.Equal(t, []int{3, 3, 1}, chunkSizes)
}

func TestFetchInBatches_BoundsConcurrency(t *testing.T) {
	var inFlight, peak int32

	_, err := FetchInBatches(context.Background(), 5, locatorsN(23),
		func(_ context.Context, locator string) (string, error) {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return locator, nil
		}, nil)

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(5))
	assert.Positive(t, atomic.LoadInt32(&peak))
}

func TestFetchInBatches_ChunksAreSequential(t *testing.T) {
	var mu sync.Mutex
	started := map[string]time.Time{}
	finished := map[string]time.Time{}

	locators := locatorsN(4)
	_, err := FetchInBatches(context.Background(), 2, locators,
		func(_ context.Context, locator string) (string, error) {
			mu.Lock()
			started[locator] = time.Now()
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			finished[locator] = time.Now()
			mu.Unlock()
			return locator, nil
		}, nil)
	require.NoError(t, err)

	firstChunkDone := finished[locators[0]]
	if finished[locators[1]].After(firstChunkDone) {
		firstChunkDone = finished[locators[1]]
	}

	assert.False(t, started[locators[2]].Before(firstChunkDone))
	assert.False(t, started[locators[3]].Before(firstChunkDone))
}

func TestFetchInBatches_FailureAbortsLaterChunks(t *testing.T) {
	boom := errors.New("detail failed")
	var calls int32

	results, err := FetchInBatches(context.Background(), 2, locatorsN(6),
		func(_ context.Context, locator string) (string, error) {
			atomic.AddInt32(&calls, 1)
			if locator == "loc-002" {
				return "", boom
			}
			return locator, nil
		}, nil)

	assert.Nil(t, results)
	assert.ErrorIs(t, err, boom)
	// first chunk (2) + failing chunk (2); the third chunk never starts
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestFetchInBatches_FailureCancelsSiblings(t *testing.T) {
	boom := errors.New("fast failure")
	var siblingCanceled atomic.Bool

	_, err := FetchInBatches(context.Background(), 2, locatorsN(2),
		func(ctx context.Context, locator string) (string, error) {
			if locator == "loc-000" {
				return "", boom
			}
			select {
			case <-ctx.Done():
				siblingCanceled.Store(true)
				return "", ctx.Err()
			case <-time.After(2 * time.Second):
				return locator, nil
			}
		}, nil)

	assert.ErrorIs(t, err, boom)
	assert.True(t, siblingCanceled.Load())
}

func TestFetchInBatches_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	_, err := FetchInBatches(ctx, 2, locatorsN(3),
		func(_ context.Context, locator string) (string, error) {
			atomic.AddInt32(&calls, 1)
			return locator, nil
		}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestFetchInBatches_EmptyAndInvalidWidth(t *testing.T) {
	results, err := FetchInBatches(context.Background(), 50, nil,
		func(_ context.Context, locator string) (string, error) { return locator, nil }, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = FetchInBatches(context.Background(), 0, locatorsN(2),
		func(_ context.Context, locator string) (string, error) { return locator, nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"loc-000", "loc-001"}, results)
}
