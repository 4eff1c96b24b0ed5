// Package handlers provides HTTP handlers for the site API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nasagas/website/internal/application/services"
	"github.com/nasagas/website/internal/domain/enquiry"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
	"github.com/nasagas/website/internal/presentation/http/middleware"
)

// Client-facing error messages for the contact endpoint.
const (
	msgTooManyRequests = "Too many requests"
	msgMissingFields   = "Missing required fields"
	msgInvalidEmail    = "Invalid email"
	msgSpamDetected    = "Spam detected"
	msgServerError     = "Server error"
)

// ContactSettings holds request handling limits for the contact endpoint.
type ContactSettings struct {
	AddressHeader string
	MaxBodyBytes  int64
}

// ContactHandlers serves the contact form endpoint.
type ContactHandlers struct {
	enquiryService *services.EnquiryService
	settings       ContactSettings
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewContactHandlers creates contact handlers with injected dependencies
func NewContactHandlers(enquiryService *services.EnquiryService, settings ContactSettings, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ContactHandlers {
	if settings.MaxBodyBytes <= 0 {
		settings.MaxBodyBytes = 64 * 1024
	}
	return &ContactHandlers{
		enquiryService: enquiryService,
		settings:       settings,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// PostContact handles POST /api/contact. Every response is {ok, error?}.
func (h *ContactHandlers) PostContact(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	log := h.logger.WithContext(logging.ChannelContact, ctx)

	marker := h.perfTracker.StartOperation("contact_request", h.enquiryService.ProviderName())
	defer marker.Complete()

	address := middleware.ClientAddress(c, h.settings.AddressHeader)
	if err := h.enquiryService.Admit(ctx, address); err != nil {
		if errors.Is(err, enquiry.ErrRateLimited) {
			marker.AddMetadata("outcome", "rate_limited")
			fail(c, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		marker.SetError(err)
		log.Error("Rate limit check failed", slog.String("error", err.Error()))
		fail(c, http.StatusInternalServerError, msgServerError)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.settings.MaxBodyBytes)

	var sub enquiry.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		marker.SetError(err)
		log.Warn("Failed to parse enquiry body", slog.String("error", err.Error()))
		fail(c, http.StatusInternalServerError, msgServerError)
		return
	}

	receipt, err := h.enquiryService.Submit(ctx, &sub)
	if err != nil {
		status, message := submitErrorResponse(err)
		if status == http.StatusInternalServerError {
			marker.SetError(err)
		} else {
			marker.AddMetadata("outcome", "rejected")
		}
		fail(c, status, message)
		return
	}

	marker.AddMetadata("receiptId", receipt.ID)
	if receipt.Trapped {
		marker.AddMetadata("outcome", "trapped")
	}
	log.Info("Contact request completed", slog.Duration("duration", time.Since(start)))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func submitErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, enquiry.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, enquiry.ErrInvalidEmail):
		return http.StatusBadRequest, msgInvalidEmail
	case errors.Is(err, enquiry.ErrSpamDetected):
		return http.StatusBadRequest, msgSpamDetected
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "error": message})
}
