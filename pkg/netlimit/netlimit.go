package netlimit

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultCapacity is the amount of permits used when no explicit capacity
// is requested. A single harvest pass may fan out to hundreds of
// firmware/link combinations, this value bounds the total amount of
// concurrently open sockets.
const DefaultCapacity = 100

// Limiter is a counting permit pool shared by every component which
// performs outbound network requests. It is constructed once by the
// top-level service and injected into every user, there is no package-level
// instance.
type Limiter struct {
	sem *semaphore.Weighted
}

// New returns a Limiter with the given capacity.
func New(capacity int64) *Limiter {
	return &Limiter{
		sem: semaphore.NewWeighted(capacity),
	}
}

// Acquire blocks until a permit is available (or until the context is
// cancelled). On success the caller is obligated to call Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns a permit to the pool.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Do runs fn while holding a permit. The permit is released unconditionally
// once fn returns.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}
