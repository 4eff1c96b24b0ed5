// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/application/container"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
	"github.com/nasagas/website/internal/infrastructure/ratelimit"
	"github.com/nasagas/website/internal/presentation/http/server"
	"github.com/nasagas/website/pkg/config"
)

// NewLogger builds the channeled logger from /pkg/config.
func NewLogger() (*logging.ChanneledLogger, error) {
	logConfig := logging.DefaultLoggerConfig()
	logConfig.OutputToFile = config.LogToFile
	logConfig.LogDirectory = config.LogDirectory
	logConfig.JSONFormat = config.LogJSON
	logConfig.DefaultLevel = logging.ParseLevel(config.LogLevel)
	logConfig.ChannelLevels = logging.ParseChannelLevels(config.LogChannelLevels)
	return logging.NewChanneledLogger(logConfig)
}

// Initialize performs the startup sequence and blocks until ctx is cancelled
// or the process receives SIGINT or SIGTERM.
func Initialize(ctx context.Context) error {
	setupLogging()

	start := time.Now().UTC()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backgroundCtx, cancelBackgroundTasks := context.WithCancel(ctx)
	defer cancelBackgroundTasks()

	// Step 1: Logging
	logger, err := NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.LogStartupPhase("logging", time.Since(start), true, map[string]any{
		"level":  config.LogLevel,
		"toFile": config.LogToFile,
	})

	// Step 2: Dependency injection container
	phaseStart := time.Now()
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	appContainer, err := container.NewContainer(container.DefaultOptions(), logger, perfTracker)
	if err != nil {
		logger.LogStartupPhase("container", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to create container: %w", err)
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.Shutdown().Error("Error closing container", "error", err.Error())
		}
	}()
	logger.LogStartupPhase("container", time.Since(phaseStart), true, map[string]any{
		"emailProvider":  appContainer.EmailProvider.Name(),
		"rateLimitStore": appContainer.Settings.RateLimitStore,
	})
	if config.MinSubmitDelay <= 0 {
		logger.Contact().Warn("Submission timing check disabled", "minSubmitDelay", config.MinSubmitDelay)
	} else {
		logger.Contact().Info("Enquiry pipeline ready", "minSubmitDelay", config.MinSubmitDelay)
	}

	// Step 3: Verify the shared rate limit store when one is configured
	if redisLimiter, ok := appContainer.Limiter.(*ratelimit.RedisLimiter); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisLimiter.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.RateLimit().Warn("Redis rate limit store unreachable, requests will fail until it recovers", "error", err.Error())
		} else {
			logger.RateLimit().Info("Redis rate limit store reachable")
		}
	}

	// Step 4: Background workers
	if memoryLimiter, ok := appContainer.Limiter.(*ratelimit.MemoryLimiter); ok {
		sweeper := ratelimit.NewSweeper(memoryLimiter, config.RateLimitSweepInterval, logger)
		go sweeper.Start(backgroundCtx)
	}
	go runPerfCleanup(backgroundCtx, perfTracker, 10*time.Minute, logger)

	// Step 5: HTTP server
	phaseStart = time.Now()
	httpServer := server.New(config.Port, server.Timeouts{
		Read:  config.ServerReadTimeout,
		Write: config.ServerWriteTimeout,
		Idle:  config.ServerIdleTimeout,
	}, appContainer)
	logger.LogStartupPhase("http", time.Since(phaseStart), true, map[string]any{"port": config.Port})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal or a server failure
	select {
	case <-ctx.Done():
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// runPerfCleanup trims expired performance markers until ctx is cancelled.
func runPerfCleanup(ctx context.Context, tracker *performance.Tracker, interval time.Duration, logger *logging.ChanneledLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := tracker.Cleanup(); removed > 0 {
				logger.Perf().Debug("Expired performance markers removed", "removed", removed)
			}
		}
	}
}

// setupLogging configures gin and the standard logger used before startup completes
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
