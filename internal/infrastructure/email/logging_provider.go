package email

import (
	"context"
	"log/slog"

	"github.com/nasagas/website/internal/infrastructure/observability/logging"
)

// LoggingProvider records a redacted copy of each enquiry instead of sending
// mail. It never fails.
type LoggingProvider struct {
	logger *logging.ChanneledLogger
}

func NewLoggingProvider(logger *logging.ChanneledLogger) *LoggingProvider {
	return &LoggingProvider{logger: logger}
}

func (p *LoggingProvider) Name() string { return ProviderLogging }

func (p *LoggingProvider) Deliver(ctx context.Context, msg *Message) error {
	sub := msg.Submission
	if sub == nil {
		p.logger.WithContext(logging.ChannelDelivery, ctx).Info("New enquiry (redacted)",
			slog.String("subject", msg.Subject))
		return nil
	}

	p.logger.WithContext(logging.ChannelDelivery, ctx).Info("New enquiry (redacted)",
		slog.String("name", sub.Name),
		slog.String("phone", logging.Redact(sub.Phone)),
		slog.String("email", logging.Redact(sub.Email)),
		slog.String("postcode", sub.Postcode),
		slog.Bool("emergency", bool(sub.Emergency)),
		slog.String("preferredContact", sub.PreferredContact),
	)
	return nil
}
