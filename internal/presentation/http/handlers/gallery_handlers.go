package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/application/services"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
)

// GalleryHandlers serves the gallery manifest and thumbnails.
type GalleryHandlers struct {
	galleryService *services.GalleryService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewGalleryHandlers creates gallery handlers with injected dependencies
func NewGalleryHandlers(galleryService *services.GalleryService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *GalleryHandlers {
	return &GalleryHandlers{
		galleryService: galleryService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetManifest handles GET /api/gallery
func (h *GalleryHandlers) GetManifest(c *gin.Context) {
	marker := h.perfTracker.StartOperation("gallery_manifest", "gallery")
	defer marker.Complete()

	manifest, err := h.galleryService.Manifest(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		h.logger.LogError(logging.ChannelGallery, "manifest", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gallery unavailable"})
		return
	}

	marker.AddMetadata("images", len(manifest.Images))
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, manifest)
}

// GetThumbnail handles GET /api/gallery/thumbs/:name
func (h *GalleryHandlers) GetThumbnail(c *gin.Context) {
	name := c.Param("name")
	marker := h.perfTracker.StartOperation("gallery_thumbnail", "gallery")
	defer marker.Complete()

	data, err := h.galleryService.Thumbnail(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			marker.AddMetadata("outcome", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "thumbnail unavailable"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/webp", data)
}
