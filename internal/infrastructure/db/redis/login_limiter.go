package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed credential checks per username in a fixed
// window. Once maxAttempts is reached the username is blocked until the
// window key expires.
// Key format: login:failures:<username>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter applies defaults of 5 attempts per 15 minutes for
// non-positive arguments.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Blocked reports whether key has used up its attempts, and the remaining
// lockout when it has.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, time.Duration, error) {
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("login limiter: %w", err)
	}
	if n < l.maxAttempts {
		return false, 0, nil
	}

	ttl, err := l.client.TTL(ctx, l.key(key)).Result()
	if err != nil {
		return true, l.window, nil
	}
	if ttl < 0 {
		ttl = l.window
	}
	return true, ttl, nil
}

// RecordFailure increments the counter; the first failure starts the window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, l.key(key))
	pipe.ExpireNX(ctx, l.key(key), l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

func (l *LoginLimiter) key(key string) string {
	return "login:failures:" + key
}
