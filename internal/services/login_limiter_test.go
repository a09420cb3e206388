package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/hrflowsvc/domain"
)

func newTestLimiter(t *testing.T, config LimiterConfig) (domain.LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, config), mr
}

func TestLoginLimiterImpl_AllowsUnderThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(t, LimiterConfig{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	assert.NoError(t, limiter.Allow(ctx, "a@example.com", "10.0.0.1"))

	for i := 0; i < 2; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "a@example.com", "10.0.0.1"))
	}
	assert.NoError(t, limiter.Allow(ctx, "a@example.com", "10.0.0.1"),
		"2 of 3 attempts should still be allowed")
}

func TestLoginLimiterImpl_BlocksAtThreshold(t *testing.T) {
	limiter, _ := newTestLimiter(t, LimiterConfig{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "b@example.com", "10.0.0.1"))
	}

	assert.ErrorIs(t, limiter.Allow(ctx, "b@example.com", "10.0.0.1"), domain.ErrTooManyAttempts)

	// Counters are keyed by email+IP: another IP or email is unaffected.
	assert.NoError(t, limiter.Allow(ctx, "b@example.com", "10.0.0.2"))
	assert.NoError(t, limiter.Allow(ctx, "other@example.com", "10.0.0.1"))
}

func TestLoginLimiterImpl_WindowExpiry(t *testing.T) {
	limiter, mr := newTestLimiter(t, LimiterConfig{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, limiter.RecordFailure(ctx, "c@example.com", "10.0.0.1"))
	}
	require.ErrorIs(t, limiter.Allow(ctx, "c@example.com", "10.0.0.1"), domain.ErrTooManyAttempts)

	mr.FastForward(time.Minute + time.Second)

	assert.NoError(t, limiter.Allow(ctx, "c@example.com", "10.0.0.1"),
		"counter should expire with the window")
}

func TestLoginLimiterImpl_FailureRestartsWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t, LimiterConfig{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "d@example.com", "10.0.0.1"))
	mr.FastForward(45 * time.Second)
	require.NoError(t, limiter.RecordFailure(ctx, "d@example.com", "10.0.0.1"))

	// 30s later the original window would have lapsed; the restarted one
	// has not, so the counter still holds both failures.
	mr.FastForward(30 * time.Second)
	assert.ErrorIs(t, limiter.Allow(ctx, "d@example.com", "10.0.0.1"), domain.ErrTooManyAttempts)
}

func TestLoginLimiterImpl_Reset(t *testing.T) {
	limiter, _ := newTestLimiter(t, LimiterConfig{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	require.NoError(t, limiter.RecordFailure(ctx, "e@example.com", "10.0.0.1"))
	require.ErrorIs(t, limiter.Allow(ctx, "e@example.com", "10.0.0.1"), domain.ErrTooManyAttempts)

	require.NoError(t, limiter.Reset(ctx, "e@example.com", "10.0.0.1"))
	assert.NoError(t, limiter.Allow(ctx, "e@example.com", "10.0.0.1"))
}
