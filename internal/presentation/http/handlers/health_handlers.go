package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
)

// HealthHandlers reports liveness and recent operation timings.
type HealthHandlers struct {
	provider       string
	rateLimitStore string
	started        time.Time
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewHealthHandlers creates health handlers.
func NewHealthHandlers(provider, rateLimitStore string, started time.Time, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		provider:       provider,
		rateLimitStore: rateLimitStore,
		started:        started,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetHealth handles GET /api/health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"provider":       h.provider,
		"rateLimitStore": h.rateLimitStore,
		"uptime":         time.Since(h.started).Round(time.Second).String(),
		"operations":     h.perfTracker.Summary(),
		"tracker":        h.perfTracker.GetOverallStats(),
		"logLevels":      h.logger.GetChannelLevels(),
	})
}
