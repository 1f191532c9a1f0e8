package hackernews

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of in-flight upstream calls. Callers beyond the cap
// wait until a slot frees or their context ends; admission order among
// waiters is not part of the contract.
type Limiter struct {
	sem *semaphore.Weighted
	cap int
}

// NewLimiter returns a limiter admitting at most n concurrent calls (n < 1 means 1).
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(n)), cap: n}
}

// Cap returns the admission ceiling.
func (l *Limiter) Cap() int { return l.cap }

// Do runs fn once a slot is available.
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}
