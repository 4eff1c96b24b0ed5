// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"
	"time"

	"github.com/nasagas/website/internal/application/services"
	"github.com/nasagas/website/internal/infrastructure/email"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
	"github.com/nasagas/website/internal/infrastructure/ratelimit"
	"github.com/nasagas/website/pkg/config"
)

// Settings are the request-handling values the presentation layer needs.
type Settings struct {
	AllowedOrigins      []string
	ClientAddressHeader string
	MaxBodyBytes        int64
	AssetsDir           string
	// RateLimitStore is filled in by NewContainer from the limiter it built.
	RateLimitStore string
}

// NewSettings reads presentation settings from the already-initialized /pkg/config variables.
func NewSettings() Settings {
	return Settings{
		AllowedOrigins:      config.AllowedOrigins,
		ClientAddressHeader: config.ClientAddressHeader,
		MaxBodyBytes:        int64(config.MaxBodyBytes),
		AssetsDir:           config.AssetsDir,
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	EnquiryService *services.EnquiryService
	GalleryService *services.GalleryService

	// Infrastructure Dependencies
	Limiter       ratelimit.Limiter
	EmailProvider email.Provider
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker

	Settings  Settings
	StartedAt time.Time
}

// Options supplies the component configuration a container is built from.
type Options struct {
	Settings  Settings
	RateLimit ratelimit.Config
	Email     email.Config
	Gallery   services.GalleryConfig
	MinDelay  time.Duration
}

// DefaultOptions reads every component configuration from /pkg/config.
func DefaultOptions() Options {
	return Options{
		Settings:  NewSettings(),
		RateLimit: ratelimit.NewConfig(),
		Email:     email.NewConfig(),
		Gallery:   services.NewGalleryConfig(),
		MinDelay:  config.MinSubmitDelay,
	}
}

// NewContainer creates and wires all singleton services
func NewContainer(opts Options, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*Container, error) {
	limiter, err := ratelimit.New(opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	provider := email.NewProvider(opts.Email, logger)

	opts.Settings.RateLimitStore = ratelimit.StoreMemory
	if _, ok := limiter.(*ratelimit.RedisLimiter); ok {
		opts.Settings.RateLimitStore = ratelimit.StoreRedis
	}

	return &Container{
		EnquiryService: services.NewEnquiryService(limiter, provider, opts.MinDelay, logger, perfTracker),
		GalleryService: services.NewGalleryService(opts.Gallery, logger),

		Limiter:       limiter,
		EmailProvider: provider,
		Logger:        logger,
		PerfTracker:   perfTracker,

		Settings:  opts.Settings,
		StartedAt: time.Now(),
	}, nil
}

// Close releases infrastructure held by the container.
func (c *Container) Close() error {
	if closer, ok := c.Limiter.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
