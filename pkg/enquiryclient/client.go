// Package enquiryclient validates and submits the site's contact form from
// Go programs, mirroring what the browser form does.
package enquiryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nasagas/website/internal/domain/enquiry"
)

// Field error messages shown next to the form inputs.
const (
	MsgRequired     = "This field is required."
	MsgInvalidEmail = "Enter a valid email address."
	MsgConsent      = "Consent is required."
)

// Status messages shown under the form.
const (
	MsgFixFields = "Please fix the highlighted fields."
	MsgSent      = "Thanks — we’ll contact you ASAP."
)

// Form holds the values a visitor typed in.
type Form struct {
	Name             string
	Phone            string
	Email            string
	Postcode         string
	Message          string
	PreferredContact string
	Company          string
	Consent          bool
	Emergency        bool
}

// Result is the outcome of Validate. FieldErrors has an entry for every
// checked field; an empty message means the field is valid.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

var requiredFields = []string{"name", "phone", "postcode", "message"}

func (f Form) value(field string) string {
	switch field {
	case "name":
		return f.Name
	case "phone":
		return f.Phone
	case "postcode":
		return f.Postcode
	case "message":
		return f.Message
	}
	return ""
}

// Validate checks required fields, the optional email and consent.
func Validate(f Form) Result {
	res := Result{Valid: true, FieldErrors: make(map[string]string, len(requiredFields)+2)}

	for _, field := range requiredFields {
		if strings.TrimSpace(f.value(field)) == "" {
			res.FieldErrors[field] = MsgRequired
			res.Valid = false
		} else {
			res.FieldErrors[field] = ""
		}
	}

	if f.Email != "" && !enquiry.IsPlausibleEmail(f.Email) {
		res.FieldErrors["email"] = MsgInvalidEmail
		res.Valid = false
	} else {
		res.FieldErrors["email"] = ""
	}

	if !f.Consent {
		res.FieldErrors["consent"] = MsgConsent
		res.Valid = false
	} else {
		res.FieldErrors["consent"] = ""
	}

	return res
}

// StatusKind classifies a submission outcome.
type StatusKind string

const (
	StatusInvalid StatusKind = "invalid"
	StatusSent    StatusKind = "sent"
	StatusFailed  StatusKind = "failed"
)

// Status is what the form shows after a submit attempt.
type Status struct {
	Kind        StatusKind
	Message     string
	FieldErrors map[string]string
	// ClearForm is set when the form should be reset.
	ClearForm bool
	// Err holds the underlying failure for StatusFailed, for logging only.
	Err error `json:"-"`
}

// Submitter posts forms to the contact endpoint.
type Submitter struct {
	Endpoint   string
	HTTPClient *http.Client
	// LoadedAt is when the form was shown; it drives timeSinceLoad.
	LoadedAt time.Time
	Now      func() time.Time
	// Phone and Email are offered to the visitor when sending fails.
	Phone string
	Email string
}

// FallbackMessage is the status shown when a submission could not be sent.
func (s *Submitter) FallbackMessage() string {
	return fmt.Sprintf("We couldn’t send your request. Please call %s or email %s.", s.Phone, s.Email)
}

type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Submit validates f and, when valid, posts it. It never returns an error;
// every failure becomes a StatusFailed carrying the fallback contact message.
func (s *Submitter) Submit(ctx context.Context, f Form) Status {
	res := Validate(f)
	if !res.Valid {
		return Status{Kind: StatusInvalid, Message: MsgFixFields, FieldErrors: res.FieldErrors}
	}

	if err := s.post(ctx, f); err != nil {
		return Status{Kind: StatusFailed, Message: s.FallbackMessage(), FieldErrors: res.FieldErrors, Err: err}
	}
	return Status{Kind: StatusSent, Message: MsgSent, FieldErrors: res.FieldErrors, ClearForm: true}
}

func (s *Submitter) post(ctx context.Context, f Form) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	payload := enquiry.Submission{
		Name:             f.Name,
		Phone:            f.Phone,
		Email:            f.Email,
		Postcode:         f.Postcode,
		Message:          f.Message,
		Consent:          enquiry.Flag(f.Consent),
		Emergency:        enquiry.Flag(f.Emergency),
		PreferredContact: f.PreferredContact,
		Company:          f.Company,
		TimeSinceLoad:    enquiry.ElapsedMillis(float64(now().Sub(s.LoadedAt).Milliseconds())),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		if result.Error == "" {
			result.Error = "Something went wrong"
		}
		return fmt.Errorf("enquiry rejected (status %d): %s", resp.StatusCode, result.Error)
	}
	return nil
}
