package ratelimit

import (
	"context"
	"time"

	"github.com/nasagas/website/internal/infrastructure/observability/logging"
)

// Sweeper periodically evicts idle addresses from a MemoryLimiter so the
// ledger does not grow with every caller ever seen.
type Sweeper struct {
	limiter  *MemoryLimiter
	interval time.Duration
	logger   *logging.ChanneledLogger
}

// NewSweeper creates a sweeper for the given limiter.
func NewSweeper(limiter *MemoryLimiter, interval time.Duration, logger *logging.ChanneledLogger) *Sweeper {
	return &Sweeper{
		limiter:  limiter,
		interval: interval,
		logger:   logger,
	}
}

// Start runs until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := s.logger.WithOperation(logging.ChannelRateLimit, "sweep")
	log.Info("Rate limit sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Rate limit sweeper stopping")
			return
		case <-ticker.C:
			start := time.Now()
			removed := s.limiter.Sweep()
			if removed > 0 {
				log.Debug("Rate limit ledger swept",
					"removed", removed,
					"remaining", s.limiter.Len(),
					"duration", time.Since(start))
			}
		}
	}
}
