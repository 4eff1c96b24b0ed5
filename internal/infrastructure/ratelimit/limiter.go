// Package ratelimit bounds how often a single caller may submit the contact
// form. Every attempt is recorded before the threshold is checked, so a
// caller that keeps retrying while blocked stays blocked.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nasagas/website/pkg/config"
)

// Limiter decides whether another request from key is admitted.
type Limiter interface {
	// Allow records an attempt for key and reports whether it is within limits.
	Allow(ctx context.Context, key string) (bool, error)
}

// Store names accepted by RATE_LIMIT_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds limiter settings, sourced from the central config package.
type Config struct {
	Store         string
	Window        time.Duration
	Max           int
	SweepInterval time.Duration
	RedisURL      string
}

// NewConfig reads limiter settings from the already-initialized /pkg/config variables.
func NewConfig() Config {
	return Config{
		Store:         strings.ToLower(config.RateLimitStore),
		Window:        config.RateLimitWindow,
		Max:           config.RateLimitMax,
		SweepInterval: config.RateLimitSweepInterval,
		RedisURL:      config.RedisURL,
	}
}

// New builds the limiter selected by cfg.Store. Unknown stores fall back to memory.
func New(cfg Config) (Limiter, error) {
	switch cfg.Store {
	case StoreRedis:
		limiter, err := NewRedisLimiterFromURL(cfg.RedisURL, cfg.Window, cfg.Max)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limiter: %w", err)
		}
		return limiter, nil
	default:
		return NewMemoryLimiter(cfg.Window, cfg.Max), nil
	}
}
