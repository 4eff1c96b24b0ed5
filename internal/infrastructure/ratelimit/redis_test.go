package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedisLimiter(t *testing.T, window time.Duration, max int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisLimiter(client, window, max)
	t.Cleanup(func() { _ = limiter.Close() })
	return limiter, mr
}

func TestRedisLimiter_SixthRequestDenied(t *testing.T) {
	limiter, _ := newTestRedisLimiter(t, time.Minute, 5)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if ok, _ := limiter.Allow(ctx, "203.0.113.7"); ok {
		t.Fatal("6th request should be denied")
	}
	if ok, _ := limiter.Allow(ctx, "198.51.100.1"); !ok {
		t.Error("other addresses must not be affected")
	}
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, time.Minute, 1)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "a"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := limiter.Allow(ctx, "a"); ok {
		t.Fatal("second request should be denied")
	}

	if ttl := mr.TTL(keyPrefix + "a"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected counter TTL within the window, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := limiter.Allow(ctx, "a"); !ok {
		t.Error("expected admission after the window expired")
	}
}

func TestRedisLimiter_ErrorWhenUnavailable(t *testing.T) {
	limiter, mr := newTestRedisLimiter(t, time.Minute, 5)
	mr.Close()

	if _, err := limiter.Allow(context.Background(), "a"); err == nil {
		t.Error("expected error when redis is unavailable")
	}
}
