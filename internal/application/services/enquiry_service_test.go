package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nasagas/website/internal/domain/enquiry"
	"github.com/nasagas/website/internal/infrastructure/email"
	"github.com/nasagas/website/internal/infrastructure/observability/logging"
	"github.com/nasagas/website/internal/infrastructure/observability/performance"
	"github.com/nasagas/website/internal/infrastructure/security"
)

type mockLimiter struct {
	AllowFunc func(ctx context.Context, key string) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return m.AllowFunc(ctx, key)
}

type mockProvider struct {
	DeliverFunc func(ctx context.Context, msg *email.Message) error
	calls       int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Deliver(ctx context.Context, msg *email.Message) error {
	m.calls++
	if m.DeliverFunc == nil {
		return nil
	}
	return m.DeliverFunc(ctx, msg)
}

func validSubmission() *enquiry.Submission {
	return &enquiry.Submission{
		Name:          "A",
		Phone:         "123",
		Postcode:      "X1",
		Message:       "leak",
		Consent:       true,
		TimeSinceLoad: enquiry.ElapsedMillis(5000),
	}
}

func newTestEnquiryService(limiter *mockLimiter, provider *mockProvider) (*EnquiryService, *performance.Tracker) {
	if limiter == nil {
		limiter = &mockLimiter{AllowFunc: func(context.Context, string) (bool, error) { return true, nil }}
	}
	tracker := performance.NewTracker(nil)
	svc := NewEnquiryService(limiter, provider, enquiry.DefaultMinSubmitDelay, logging.NewDiscardLogger(), tracker)
	return svc, tracker
}

func TestEnquiryService_Admit(t *testing.T) {
	var seen string
	limiter := &mockLimiter{AllowFunc: func(_ context.Context, key string) (bool, error) {
		seen = key
		return key != "blocked", nil
	}}
	svc, _ := newTestEnquiryService(limiter, &mockProvider{})

	if err := svc.Admit(context.Background(), "203.0.113.7"); err != nil {
		t.Errorf("expected admission, got %v", err)
	}
	if seen != "203.0.113.7" {
		t.Errorf("limiter saw %q", seen)
	}
	if err := svc.Admit(context.Background(), "blocked"); !errors.Is(err, enquiry.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestEnquiryService_AdmitBackendError(t *testing.T) {
	backendErr := errors.New("redis down")
	limiter := &mockLimiter{AllowFunc: func(context.Context, string) (bool, error) { return false, backendErr }}
	svc, _ := newTestEnquiryService(limiter, &mockProvider{})

	err := svc.Admit(context.Background(), "a")
	if !errors.Is(err, backendErr) || errors.Is(err, enquiry.ErrRateLimited) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}

func TestEnquiryService_SubmitDelivers(t *testing.T) {
	var got *email.Message
	provider := &mockProvider{DeliverFunc: func(_ context.Context, msg *email.Message) error {
		got = msg
		return nil
	}}
	svc, tracker := newTestEnquiryService(nil, provider)

	sub := validSubmission()
	sub.Name = "  A  "
	receipt, err := svc.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one delivery, got %d", provider.calls)
	}
	if receipt.Trapped || receipt.Provider != "mock" || !security.IsULID(receipt.ID) {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
	if got.Subject != "New website enquiry from A" {
		t.Errorf("unexpected subject %q", got.Subject)
	}
	if got.Summary != enquiry.BuildSummary(sub) {
		t.Errorf("unexpected summary %q", got.Summary)
	}
	if metrics := tracker.GetMetrics("enquiry_delivery"); len(metrics) != 1 || !metrics[0].Success {
		t.Errorf("expected one successful delivery marker, got %+v", metrics)
	}
}

func TestEnquiryService_SubmitHoneypot(t *testing.T) {
	provider := &mockProvider{}
	svc, _ := newTestEnquiryService(nil, provider)

	sub := validSubmission()
	sub.Company = "spammerbot"
	sub.Message = ""
	receipt, err := svc.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("honeypot must report success, got %v", err)
	}
	if !receipt.Trapped {
		t.Error("expected trapped receipt")
	}
	if provider.calls != 0 {
		t.Errorf("expected zero deliveries, got %d", provider.calls)
	}
}

func TestEnquiryService_SubmitValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*enquiry.Submission)
		want   error
	}{
		{"missing message", func(s *enquiry.Submission) { s.Message = "" }, enquiry.ErrMissingFields},
		{"whitespace name", func(s *enquiry.Submission) { s.Name = "   " }, enquiry.ErrMissingFields},
		{"no consent", func(s *enquiry.Submission) { s.Consent = false }, enquiry.ErrMissingFields},
		{"bad email", func(s *enquiry.Submission) { s.Email = "not-an-email" }, enquiry.ErrInvalidEmail},
		{"too fast", func(s *enquiry.Submission) { s.TimeSinceLoad = enquiry.ElapsedMillis(500) }, enquiry.ErrSpamDetected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			svc, _ := newTestEnquiryService(nil, provider)
			sub := validSubmission()
			tt.mutate(sub)

			_, err := svc.Submit(context.Background(), sub)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if provider.calls != 0 {
				t.Error("invalid submissions must not be delivered")
			}
		})
	}
}

func TestEnquiryService_SubmitDeliveryFailure(t *testing.T) {
	provider := &mockProvider{DeliverFunc: func(context.Context, *email.Message) error {
		return errors.New("connection refused")
	}}
	svc, tracker := newTestEnquiryService(nil, provider)

	_, err := svc.Submit(context.Background(), validSubmission())
	var derr *email.DeliveryError
	if !errors.As(err, &derr) || derr.Provider != "mock" {
		t.Fatalf("expected DeliveryError from mock, got %v", err)
	}
	if metrics := tracker.GetMetrics("enquiry_delivery"); len(metrics) != 1 || metrics[0].Success {
		t.Errorf("expected one failed delivery marker, got %+v", metrics)
	}
}
