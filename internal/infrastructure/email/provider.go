// Package email delivers enquiry notifications through one of a closed set
// of providers chosen once at startup.
package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nasagas/website/internal/domain/enquiry"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/pkg/config"
)

// Provider names accepted by EMAIL_PROVIDER.
const (
	ProviderMailChannels = "mailchannels"
	ProviderResend       = "resend"
	ProviderLogging      = "logging"
)

// Provider delivers a composed enquiry.
type Provider interface {
	Name() string
	Deliver(ctx context.Context, msg *Message) error
}

// Message is everything a provider needs to deliver one enquiry.
type Message struct {
	Subject    string
	Summary    string
	Submission *enquiry.Submission
}

// NewMessage composes the subject and summary for a validated submission.
func NewMessage(sub *enquiry.Submission) *Message {
	return &Message{
		Subject:    enquiry.Subject(sub),
		Summary:    enquiry.BuildSummary(sub),
		Submission: sub,
	}
}

// Config holds delivery settings.
type Config struct {
	Provider             string
	FromEmail            string
	FromName             string
	ToEmail              string
	ResendAPIKey         string
	MailChannelsEndpoint string
	Timeout              time.Duration
}

// NewConfig reads delivery settings from the already-initialized /pkg/config variables.
func NewConfig() Config {
	return Config{
		Provider:             strings.ToLower(strings.TrimSpace(config.EmailProvider)),
		FromEmail:            config.FromEmail,
		FromName:             config.FromName,
		ToEmail:              config.ToEmail,
		ResendAPIKey:         config.ResendAPIKey,
		MailChannelsEndpoint: config.MailChannelsEndpoint,
		Timeout:              config.EmailTimeout,
	}
}

// NewProvider returns the provider named by cfg.Provider. Any unrecognised
// name selects the logging provider. Missing credentials are not reported
// here; they surface as a DeliveryError on the first Deliver call.
func NewProvider(cfg Config, logger *logging.ChanneledLogger) Provider {
	switch cfg.Provider {
	case ProviderMailChannels:
		return NewMailChannelsProvider(cfg)
	case ProviderResend:
		return NewResendProvider(cfg)
	case ProviderLogging, "":
		return NewLoggingProvider(logger)
	default:
		logger.Delivery().Warn("Unknown email provider, logging enquiries instead", "provider", cfg.Provider)
		return NewLoggingProvider(logger)
	}
}

// DeliveryError reports that the selected provider rejected the message or
// was not configured to send it.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func deliveryError(provider string, format string, args ...any) *DeliveryError {
	return &DeliveryError{Provider: provider, Err: fmt.Errorf(format, args...)}
}
