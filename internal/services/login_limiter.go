package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/hrflowsvc/domain"
)

// LimiterConfig carries the failed-login throttle settings.
type LimiterConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginLimiterImpl implements domain.LoginLimiter using Redis counters keyed
// by email and source IP. Counters expire with the window, so a quiet period
// clears the slate without any sweeper.
type LoginLimiterImpl struct {
	redisClient *redis.Client
	config      LimiterConfig
}

// NewLoginLimiter creates a new Redis-based login limiter
func NewLoginLimiter(redisClient *redis.Client, config LimiterConfig) domain.LoginLimiter {
	return &LoginLimiterImpl{
		redisClient: redisClient,
		config:      config,
	}
}

func (l *LoginLimiterImpl) key(email, ip string) string {
	return fmt.Sprintf("login:fail:%s:%s", email, ip)
}

// Allow implements domain.LoginLimiter
func (l *LoginLimiterImpl) Allow(ctx context.Context, email, ip string) error {
	val, err := l.redisClient.Get(ctx, l.key(email, ip)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read attempt counter: %w", err)
	}

	attempts, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("corrupt attempt counter: %w", err)
	}
	if attempts >= l.config.MaxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// RecordFailure implements domain.LoginLimiter. The window restarts on every
// failure so a slow brute force cannot ride the expiry.
func (l *LoginLimiterImpl) RecordFailure(ctx context.Context, email, ip string) error {
	key := l.key(email, ip)
	if err := l.redisClient.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	if err := l.redisClient.Expire(ctx, key, l.config.Window).Err(); err != nil {
		return fmt.Errorf("failed to set counter expiry: %w", err)
	}
	return nil
}

// Reset implements domain.LoginLimiter
func (l *LoginLimiterImpl) Reset(ctx context.Context, email, ip string) error {
	return l.redisClient.Del(ctx, l.key(email, ip)).Err()
}
