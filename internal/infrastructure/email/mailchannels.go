package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type mailChannelsAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailChannelsPersonalization struct {
	To []mailChannelsAddress `json:"to"`
}

type mailChannelsContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type mailChannelsRequest struct {
	Personalizations []mailChannelsPersonalization `json:"personalizations"`
	From             mailChannelsAddress           `json:"from"`
	Subject          string                        `json:"subject"`
	Content          []mailChannelsContent         `json:"content"`
}

// MailChannelsProvider posts the plain-text summary to the MailChannels
// transactional API.
type MailChannelsProvider struct {
	endpoint   string
	fromEmail  string
	fromName   string
	toEmail    string
	httpClient *http.Client
}

func NewMailChannelsProvider(cfg Config) *MailChannelsProvider {
	return &MailChannelsProvider{
		endpoint:   cfg.MailChannelsEndpoint,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		toEmail:    cfg.ToEmail,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *MailChannelsProvider) Name() string { return ProviderMailChannels }

func (p *MailChannelsProvider) Deliver(ctx context.Context, msg *Message) error {
	if p.fromEmail == "" || p.toEmail == "" {
		return deliveryError(p.Name(), "missing FROM_EMAIL or TO_EMAIL")
	}

	body, err := json.Marshal(mailChannelsRequest{
		Personalizations: []mailChannelsPersonalization{
			{To: []mailChannelsAddress{{Email: p.toEmail}}},
		},
		From:    mailChannelsAddress{Email: p.fromEmail, Name: p.fromName},
		Subject: msg.Subject,
		Content: []mailChannelsContent{{Type: "text/plain", Value: msg.Summary}},
	})
	if err != nil {
		return deliveryError(p.Name(), "failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return deliveryError(p.Name(), "failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return deliveryError(p.Name(), "request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{Provider: p.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
