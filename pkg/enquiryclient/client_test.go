package enquiryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func validForm() Form {
	return Form{
		Name:     "Alice",
		Phone:    "07700 900123",
		Postcode: "SW1A 1AA",
		Message:  "Boiler broken",
		Consent:  true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
		want   string
	}{
		{"valid", func(f *Form) {}, "", ""},
		{"blank name", func(f *Form) { f.Name = "   " }, "name", MsgRequired},
		{"missing postcode", func(f *Form) { f.Postcode = "" }, "postcode", MsgRequired},
		{"bad email", func(f *Form) { f.Email = "nope" }, "email", MsgInvalidEmail},
		{"no consent", func(f *Form) { f.Consent = false }, "consent", MsgConsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			res := Validate(f)

			if tt.field == "" {
				if !res.Valid {
					t.Fatalf("expected valid, got %v", res.FieldErrors)
				}
				for field, msg := range res.FieldErrors {
					if msg != "" {
						t.Errorf("field %s has error %q", field, msg)
					}
				}
				return
			}
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if got := res.FieldErrors[tt.field]; got != tt.want {
				t.Errorf("FieldErrors[%s] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestSubmitInvalidMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	s := &Submitter{Endpoint: srv.URL, HTTPClient: srv.Client()}
	f := validForm()
	f.Message = ""
	status := s.Submit(context.Background(), f)

	if status.Kind != StatusInvalid || status.Message != MsgFixFields {
		t.Errorf("unexpected status %+v", status)
	}
	if status.FieldErrors["message"] != MsgRequired {
		t.Errorf("message error = %q", status.FieldErrors["message"])
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("invalid form should not be sent")
	}
}

func TestSubmitSent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	loaded := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := &Submitter{
		Endpoint:   srv.URL,
		HTTPClient: srv.Client(),
		LoadedAt:   loaded,
		Now:        func() time.Time { return loaded.Add(4200 * time.Millisecond) },
	}
	f := validForm()
	f.Emergency = true
	status := s.Submit(context.Background(), f)

	if status.Kind != StatusSent || !status.ClearForm {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Message != MsgSent {
		t.Errorf("message = %q", status.Message)
	}
	if body["emergency"] != true || body["consent"] != true {
		t.Errorf("flags not sent as booleans: %v", body)
	}
	if body["timeSinceLoad"] != float64(4200) {
		t.Errorf("timeSinceLoad = %v", body["timeSinceLoad"])
	}
	if body["name"] != "Alice" {
		t.Errorf("name = %v", body["name"])
	}
}

func TestSubmitFailed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not ok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"error":"Spam detected"}`))
		}},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"error":"Too many requests"}`))
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := &Submitter{
				Endpoint:   srv.URL,
				HTTPClient: srv.Client(),
				Phone:      "07790 714880",
				Email:      "owner@example.com",
			}
			status := s.Submit(context.Background(), validForm())

			if status.Kind != StatusFailed || status.ClearForm {
				t.Fatalf("unexpected status %+v", status)
			}
			if !strings.Contains(status.Message, "07790 714880") || !strings.Contains(status.Message, "owner@example.com") {
				t.Errorf("fallback message missing contact details: %q", status.Message)
			}
			if status.Err == nil {
				t.Error("expected underlying error")
			}
		})
	}
}

func TestSubmitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	s := &Submitter{Endpoint: endpoint, Phone: "1", Email: "e@x.io"}
	status := s.Submit(context.Background(), validForm())
	if status.Kind != StatusFailed {
		t.Errorf("kind = %s", status.Kind)
	}
	if status.Message != s.FallbackMessage() {
		t.Errorf("message = %q", status.Message)
	}
}
