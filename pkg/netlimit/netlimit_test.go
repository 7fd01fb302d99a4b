package netlimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimiterCapacityIsNeverExceeded(t *testing.T) {
	const capacity = 5
	limiter := New(capacity)

	var inFlight, observedMax int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := limiter.Do(context.Background(), func(context.Context) error {
				current := atomic.AddInt64(&inFlight, 1)
				defer atomic.AddInt64(&inFlight, -1)

				for {
					max := atomic.LoadInt64(&observedMax)
					if current <= max || atomic.CompareAndSwapInt64(&observedMax, max, current) {
						return nil
					}
				}
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt64(&observedMax), int64(capacity))
	require.Greater(t, atomic.LoadInt64(&observedMax), int64(0))
}

func TestLimiterReleasesOnError(t *testing.T) {
	limiter := New(1)

	for i := 0; i < 10; i++ {
		_ = limiter.Do(context.Background(), func(context.Context) error {
			return context.Canceled
		})
	}

	// if a permit leaked above, this would block forever
	require.NoError(t, limiter.Acquire(context.Background()))
	limiter.Release()
}

func TestLimiterAcquireHonorsContext(t *testing.T) {
	limiter := New(1)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := limiter.Do(ctx, func(context.Context) error { return nil })
	require.Error(t, err)
}
