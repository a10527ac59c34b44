package resilience

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds the number of concurrently running operations using a
// weighted semaphore. Worker components share one Limiter per concern to
// prevent resource exhaustion when many modules fire at once.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter creates a Limiter that allows at most limit concurrent operations.
func NewLimiter(limit int) *Limiter {
	if limit < 1 {
		limit = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot.
// Blocks if all slots are busy. Returns ctx.Err() if the context
// is cancelled while waiting for a slot.
// If the limiter is nil, fn is executed directly without concurrency control.
func (l *Limiter) Run(ctx context.Context, fn func() error) error {
	if l == nil || l.sem == nil {
		return fn()
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn()
}
