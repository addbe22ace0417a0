package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter serializes outbound calls to an external service, enforcing a
// minimum spacing between the start of consecutive calls. It replaces the
// usual module-level last-call timestamp with an explicit object that every
// call site acquires via Wait.
//
// The mutex is held only long enough to reserve the next slot; the actual
// sleep happens outside the critical section.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// New returns a limiter enforcing the given minimum interval between call
// starts. A non-positive interval disables waiting.
func New(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the caller may start its call, or until the context is
// done. The slot is reserved before sleeping, so concurrent waiters queue
// up at interval spacing.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	start := l.next
	if start.Before(now) {
		start = now
	}
	l.next = start.Add(l.interval)
	l.mu.Unlock()

	delay := time.Until(start)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
