package limiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("rate limited")

type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
}

func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{redis_rate.NewLimiter(client)}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	res, err := l.limiter.Allow(ctx, key, limit)
	if err != nil {
		return err
	}
	if res.Allowed == 0 {
		return fmt.Errorf("%w: retry after %s", ErrRateLimited, res.RetryAfter)
	}
	return nil
}

// NoopLimiter allows everything. Used when no redis is configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string, redis_rate.Limit) error {
	return nil
}
