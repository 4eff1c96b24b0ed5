// Package services provides application-level services that orchestrate
// domain rules and infrastructure for the HTTP layer and the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nasagas/website/internal/domain/enquiry"
	"github.com/nasagas/website/internal/infrastructure/email"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
	"github.com/nasagas/website/internal/infrastructure/ratelimit"
	"github.com/nasagas/website/internal/infrastructure/security"
)

// Receipt describes the outcome of an accepted submission.
type Receipt struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	// Trapped is set when the honeypot caught the submission and nothing was sent.
	Trapped bool `json:"-"`
}

// EnquiryService runs the contact form pipeline.
type EnquiryService struct {
	limiter     ratelimit.Limiter
	provider    email.Provider
	minDelay    time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewEnquiryService creates the enquiry pipeline service.
func NewEnquiryService(
	limiter ratelimit.Limiter,
	provider email.Provider,
	minDelay time.Duration,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EnquiryService {
	return &EnquiryService{
		limiter:     limiter,
		provider:    provider,
		minDelay:    minDelay,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ProviderName returns the delivery provider selected at startup.
func (s *EnquiryService) ProviderName() string {
	return s.provider.Name()
}

// Admit records an attempt from address and returns ErrRateLimited when the
// caller is over its limit.
func (s *EnquiryService) Admit(ctx context.Context, address string) error {
	allowed, err := s.limiter.Allow(ctx, address)
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		s.logger.WithContext(logging.ChannelRateLimit, ctx).Warn("Enquiry rate limited",
			slog.String("address", address))
		return enquiry.ErrRateLimited
	}
	return nil
}

// Submit validates sub and hands it to the delivery provider. A submission
// caught by the honeypot returns a trapped receipt without being delivered.
func (s *EnquiryService) Submit(ctx context.Context, sub *enquiry.Submission) (*Receipt, error) {
	receipt := &Receipt{
		ID:       security.GenerateULID(),
		Provider: s.provider.Name(),
	}
	log := s.logger.WithContext(logging.ChannelContact, ctx).With(slog.String("receiptId", receipt.ID))

	if sub.IsHoneypotTripped() {
		receipt.Trapped = true
		log.Info("Enquiry caught by honeypot")
		return receipt, nil
	}

	sub.Normalize()
	if err := enquiry.Validate(sub, s.minDelay); err != nil {
		log.Info("Enquiry rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	marker := s.perfTracker.StartOperation("enquiry_delivery", receipt.Provider)
	defer marker.Complete()

	if err := s.provider.Deliver(ctx, email.NewMessage(sub)); err != nil {
		marker.SetError(err)
		var derr *email.DeliveryError
		if !errors.As(err, &derr) {
			err = &email.DeliveryError{Provider: receipt.Provider, Err: err}
		}
		log.Error("Enquiry delivery failed", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("Enquiry delivered",
		slog.String("provider", receipt.Provider),
		slog.Bool("emergency", bool(sub.Emergency)))
	return receipt, nil
}
