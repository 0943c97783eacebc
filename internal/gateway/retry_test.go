package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"uno-qr-menu/pkg/logger"

	"github.com/stretchr/testify/require"
)

func retryGateway(attempts int, baseDelay time.Duration) *Gateway {
	return &Gateway{
		logger: logger.NewLogger("gateway-test"),
		retry:  RetryPolicy{Attempts: attempts, BaseDelay: baseDelay},
	}
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	g := retryGateway(3, time.Millisecond)

	calls := 0
	err := g.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestWithRetry_RecoversAfterFailure(t *testing.T) {
	g := retryGateway(3, time.Millisecond)

	calls := 0
	err := g.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	g := retryGateway(3, time.Millisecond)

	boom := errors.New("db down")
	calls := 0
	err := g.withRetry(context.Background(), "getOrders", func(ctx context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "getOrders")
	require.Equal(t, 3, calls)
}

func TestWithRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	g := retryGateway(0, time.Millisecond)

	calls := 0
	err := g.withRetry(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	g := retryGateway(5, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := g.withRetry(ctx, "op", func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
