// ABOUTME: Tests for the de-duplicating prefetch cache.
// ABOUTME: Covers shared lookups, TTL expiry, failures, eviction and cancellation.
package prefetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConcurrentCallersShareOneLookup(t *testing.T) {
	c := New[string](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "record", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.Do(context.Background(), "b:c", fn)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = c.Do(context.Background(), "b:c", fn)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, "record", results[0])
	require.Equal(t, "record", results[1])
	require.Equal(t, int32(1), calls.Load())
}

func TestCachedValueServedUntilTTL(t *testing.T) {
	c := New[int](30 * time.Millisecond)
	var calls atomic.Int32
	fn := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	v, err := c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, 1, c.Len())

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 1, got)

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	v, err = c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestFailureIsNotCached(t *testing.T) {
	c := New[string](time.Minute)
	boom := errors.New("upstream down")
	var calls atomic.Int32
	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", boom
	}

	_, err := c.Do(context.Background(), "k", fn)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, c.Len())

	_, err = c.Do(context.Background(), "k", fn)
	require.ErrorIs(t, err, boom)
	require.Equal(t, int32(2), calls.Load())
}

func TestCallerCancellationDoesNotCancelLookup(t *testing.T) {
	c := New[string](time.Minute)
	release := make(chan struct{})
	lookupErr := make(chan error, 1)

	fn := func(ctx context.Context) (string, error) {
		<-release
		lookupErr <- ctx.Err()
		return "record", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, "k", fn)
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.NoError(t, <-lookupErr)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)

	v, err := c.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	require.Equal(t, "record", v)
}

func TestEvict(t *testing.T) {
	c := New[string](time.Minute)
	_, err := c.Do(context.Background(), "k", func(ctx context.Context) (string, error) { return "v", nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	c.Evict("k")
	require.Equal(t, 0, c.Len())
	_, ok := c.Get("k")
	require.False(t, ok)

	c.Evict("missing")
}

func TestEvictDuringLookupDiscardsResult(t *testing.T) {
	c := New[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string, 1)
	go func() {
		v, _ := c.Do(context.Background(), "k", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()

	<-started
	c.Evict("k")
	close(release)

	// The caller that started the lookup still gets its answer.
	require.Equal(t, "old", <-done)

	_, ok := c.Get("k")
	require.False(t, ok, "value fetched before Evict must not be cached")

	v, err := c.Do(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	require.Equal(t, "new", v)

	cached, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "new", cached)
}

func TestNewDefaultsTTL(t *testing.T) {
	c := New[int](0)
	require.Equal(t, DefaultTTL, c.ttl)
	require.Equal(t, "ben:cli", Key("ben", "cli"))
}
