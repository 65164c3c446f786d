package internal

import (
	"context"
	"time"
)

// WithTimeout returns a context with timeout, defaulting the backend
// transport's 5 seconds when duration is zero or negative. No operation is
// retried on expiry; the failure is surfaced to the caller.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
