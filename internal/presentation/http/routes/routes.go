// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/application/container"
	"github.com/nasagas/website/internal/presentation/http/handlers"
	"github.com/nasagas/website/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(container.Settings.AllowedOrigins))

	// Site images, scripts and styles.
	if container.Settings.AssetsDir != "" {
		r.Static("/assets", container.Settings.AssetsDir)
	}

	// Initialize handlers
	contactHandlers := handlers.NewContactHandlers(
		container.EnquiryService,
		handlers.ContactSettings{
			AddressHeader: container.Settings.ClientAddressHeader,
			MaxBodyBytes:  container.Settings.MaxBodyBytes,
		},
		container.Logger,
		container.PerfTracker,
	)
	galleryHandlers := handlers.NewGalleryHandlers(container.GalleryService, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(
		container.EmailProvider.Name(),
		container.Settings.RateLimitStore,
		container.StartedAt,
		container.Logger,
		container.PerfTracker,
	)

	api := r.Group("/api")
	{
		api.POST("/contact", contactHandlers.PostContact)

		api.GET("/gallery", galleryHandlers.GetManifest)
		api.GET("/gallery/thumbs/:name", galleryHandlers.GetThumbnail)

		api.GET("/health", healthHandlers.GetHealth)
	}

	return r
}
