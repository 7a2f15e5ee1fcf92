package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devmart/media-pipeline-go/internal/port"
)

// RedisLimiter is a fixed-window counter shared across instances.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// compile-time check: *RedisLimiter must satisfy port.RateLimiter
var _ port.RateLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(addr, password string, max int64, window time.Duration) *RedisLimiter {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisLimiter{client: rdb, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := "ratelimit:" + key

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire failed: %w", err)
		}
	}
	return count <= l.max, nil
}
