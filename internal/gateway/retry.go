package gateway

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries a failed gateway call with exponential backoff before
// surfacing the error to the caller. Delay doubles each attempt.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func (g *Gateway) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := g.retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		g.logger.Warn("", "gateway_retry",
			fmt.Sprintf("attempt %d failed for %s: %v", attempt, op, err))

		if attempt == attempts {
			break
		}

		delay := g.retry.BaseDelay << uint(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
