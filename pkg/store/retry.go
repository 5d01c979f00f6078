package store

import (
	"context"
	"errors"
	"time"
)

// Network backends are dialed a few times before Open gives up, so a
// server started alongside its database does not fall back to the preset.
const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// retry calls fn up to attempts times, doubling delay after each failure.
// Only [ErrUnavailable] failures are retried; the last error is returned,
// or ctx.Err() if ctx ends while waiting.
func retry[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	attempts = max(attempts, 1)
	var (
		v   T
		err error
	)
	for i := range attempts {
		if v, err = fn(); err == nil || !errors.Is(err, ErrUnavailable) {
			return v, err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return v, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return v, err
}
