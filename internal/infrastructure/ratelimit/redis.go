package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis Lua script for an atomic fixed-window counter.
// KEYS[1] = counter key (ratelimit:contact:<address>)
// ARGV[1] = window length in milliseconds
// The counter is incremented before it is compared, so denied attempts
// still extend a caller's count for the current window.
const fixedWindowScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`

const keyPrefix = "ratelimit:contact:"

// RedisLimiter shares a fixed-window counter across instances through Redis.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	window time.Duration
	max    int
}

// NewRedisLimiter wraps an existing client.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		window: window,
		max:    max,
	}
}

// NewRedisLimiterFromURL parses a redis:// URL and connects lazily.
func NewRedisLimiterFromURL(url string, window time.Duration, max int) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisLimiter(redis.NewClient(opts), window, max), nil
}

// Allow increments the caller's counter and reports whether it is within max.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.script.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit script failed: %w", err)
	}
	return count <= int64(l.max), nil
}

// Ping verifies the Redis connection.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
