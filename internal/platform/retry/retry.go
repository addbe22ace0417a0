package retry

import (
	"context"
	"time"
)

// Policy describes a bounded retry loop with exponential backoff: the
// delay starts at BaseDelay and doubles after every failed attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do runs fn up to MaxAttempts times, retrying only while transient
// reports the failure as retryable and respecting context cancellation
// between attempts. The last error is returned when all attempts fail.
func (p Policy) Do(ctx context.Context, transient func(error) bool, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !transient(err) || attempt == attempts {
			return lastErr
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}

	return lastErr
}
