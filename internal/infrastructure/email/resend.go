package email

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nasagas/website/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// ResendProvider sends the summary as text plus an HTML rendering through
// the Resend API. Each delivery is bounded by the configured timeout and the
// caller's context.
type ResendProvider struct {
	apiKey    string
	fromEmail string
	toEmail   string
	timeout   time.Duration
	baseURL   *url.URL
	transport http.RoundTripper
}

func NewResendProvider(cfg Config) *ResendProvider {
	return &ResendProvider{
		apiKey:    strings.Trim(strings.TrimSpace(cfg.ResendAPIKey), "'"),
		fromEmail: cfg.FromEmail,
		toEmail:   cfg.ToEmail,
		timeout:   cfg.Timeout,
		transport: http.DefaultTransport,
	}
}

// WithBaseURL points the client at a different API host.
func (p *ResendProvider) WithBaseURL(base string) (*ResendProvider, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid resend base URL: %w", err)
	}
	p.baseURL = parsed
	return p, nil
}

func (p *ResendProvider) Name() string { return ProviderResend }

func (p *ResendProvider) Deliver(ctx context.Context, msg *Message) error {
	if p.apiKey == "" || p.fromEmail == "" || p.toEmail == "" {
		return deliveryError(p.Name(), "missing RESEND_API_KEY, FROM_EMAIL or TO_EMAIL")
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return deliveryError(p.Name(), "%w", err)
	}

	client := resend.NewCustomClient(&http.Client{
		Transport: contextTransport{ctx: ctx, base: p.transport},
	}, p.apiKey)
	if p.baseURL != nil {
		client.BaseURL = p.baseURL
	}

	params := &resend.SendEmailRequest{
		From:    p.fromEmail,
		To:      []string{p.toEmail},
		Subject: msg.Subject,
		Text:    msg.Summary,
		Html:    renderHTML(msg),
	}

	if _, err := client.Emails.Send(params); err != nil {
		return deliveryError(p.Name(), "failed to send via Resend: %w", err)
	}
	return nil
}

// contextTransport attaches ctx to requests built by the Resend client,
// which creates them without one.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func renderHTML(msg *Message) string {
	sub := msg.Submission
	if sub == nil {
		return templates.GetEmailLayout(templates.EmailLayoutProps{
			Title:   msg.Subject,
			Content: templates.GetParagraph(msg.Summary),
		})
	}

	content := templates.GetEnquiryEmailContent(templates.EnquiryEmailProps{
		Name:             sub.Name,
		Phone:            sub.Phone,
		Email:            sub.Email,
		Postcode:         sub.Postcode,
		Emergency:        bool(sub.Emergency),
		PreferredContact: sub.PreferredContact,
		Message:          sub.Message,
	})
	return templates.GetEmailLayout(templates.EmailLayoutProps{
		Title:     msg.Subject,
		Preheader: msg.Subject,
		Content:   content,
	})
}
