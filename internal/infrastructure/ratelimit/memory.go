package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements a per-process sliding window over request
// timestamps. It suits a single instance; separate processes keep separate
// ledgers.
type MemoryLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	window   time.Duration
	max      int
	now      func() time.Time
}

// NewMemoryLimiter creates a limiter admitting max requests per window per key.
func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	return &MemoryLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		max:      max,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

// Allow records the attempt and reports whether the in-window count is within max.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(l.requests[key], now)
	recent = append(recent, now)
	l.requests[key] = recent

	return len(recent) <= l.max, nil
}

// prune keeps timestamps strictly younger than the window
func (l *MemoryLimiter) prune(times []time.Time, now time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if now.Sub(t) < l.window {
			valid = append(valid, t)
		}
	}
	return valid
}

// Sweep drops stale timestamps for every key and forgets keys left empty.
// It returns the number of keys removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, times := range l.requests {
		valid := l.prune(times, now)
		if len(valid) == 0 {
			delete(l.requests, key)
			removed++
			continue
		}
		l.requests[key] = valid
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}
