package enquiry

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestFlag_UnmarshalLooseValues(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`"on"`, true},
		{`"yes"`, true},
		{`""`, false},
		{`"false"`, false},
		{`"0"`, false},
		{`"off"`, false},
		{`"No"`, false},
		{`1`, true},
		{`0`, false},
	}

	for _, tt := range tests {
		var f Flag
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.raw, err)
		}
		if bool(f) != tt.want {
			t.Errorf("Flag(%s) = %v, want %v", tt.raw, f, tt.want)
		}
	}
}

func TestElapsed_OnlyNumbersArePresent(t *testing.T) {
	var sub Submission
	if err := json.Unmarshal([]byte(`{"timeSinceLoad":"500"}`), &sub); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if sub.TimeSinceLoad.Present {
		t.Error("string timeSinceLoad should not count as present")
	}

	if err := json.Unmarshal([]byte(`{"timeSinceLoad":2500}`), &sub); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !sub.TimeSinceLoad.Present || sub.TimeSinceLoad.Duration() != 2500*time.Millisecond {
		t.Errorf("unexpected elapsed %+v", sub.TimeSinceLoad)
	}
}

func TestSubmission_MarshalRoundTripKeepsWireNames(t *testing.T) {
	sub := Submission{Name: "A", Consent: true, TimeSinceLoad: ElapsedMillis(1234)}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["consent"] != true {
		t.Errorf("expected consent=true, got %v", raw["consent"])
	}
	if raw["timeSinceLoad"] != float64(1234) {
		t.Errorf("expected timeSinceLoad=1234, got %v", raw["timeSinceLoad"])
	}
	if raw["emergency"] != false {
		t.Errorf("expected emergency=false, got %v", raw["emergency"])
	}
}

func TestSubmission_NormalizeAndHoneypot(t *testing.T) {
	sub := Submission{Name: "  Ann "}
	if sub.IsHoneypotTripped() {
		t.Error("empty company should not trip the honeypot")
	}

	sub.Company = "   "
	if !sub.IsHoneypotTripped() {
		t.Error("whitespace-only company should trip the honeypot")
	}

	sub.Company = "spammerbot"
	if !sub.IsHoneypotTripped() {
		t.Error("expected honeypot to trip")
	}

	sub.Normalize()
	if sub.Name != "Ann" {
		t.Errorf("expected trimmed name, got %q", sub.Name)
	}
}

func TestSubmission_UnmarshalLooseText(t *testing.T) {
	raw := `{"name":"Ann","phone":7790714880,"postcode":"X1","message":true,` +
		`"email":null,"preferredContact":0,"company":1,"consent":"on"}`
	var sub Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if sub.Phone != "7790714880" {
		t.Errorf("expected numeric phone kept as text, got %q", sub.Phone)
	}
	if sub.Message != "true" || sub.Email != "" || sub.PreferredContact != "" {
		t.Errorf("unexpected text fields %+v", sub)
	}
	if !sub.IsHoneypotTripped() {
		t.Error("numeric company should trip the honeypot")
	}
	if !bool(sub.Consent) {
		t.Error("expected consent")
	}

	if err := json.Unmarshal([]byte(`{"company":false,"name":{"a":1}}`), &sub); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if sub.IsHoneypotTripped() {
		t.Error("false company should not trip the honeypot")
	}
	if sub.Name != `{"a":1}` {
		t.Errorf("expected raw object text, got %q", sub.Name)
	}
	if sub.Phone != "" {
		t.Errorf("expected fields reset between decodes, got %q", sub.Phone)
	}
}

func TestElapsed_DurationSaturates(t *testing.T) {
	if d := ElapsedMillis(1e20).Duration(); d != time.Duration(math.MaxInt64) {
		t.Errorf("expected saturation, got %s", d)
	}
	if ElapsedMillis(1e20).Before(1500 * time.Millisecond) {
		t.Error("huge elapsed should not be before the minimum delay")
	}
}
