// Package enquiry defines the contact form submission received from the site
// and the rules every submission must satisfy before it is delivered.
package enquiry

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Submission is the JSON payload posted by the contact form.
type Submission struct {
	Name             string  `json:"name" validate:"required"`
	Phone            string  `json:"phone" validate:"required"`
	Email            string  `json:"email,omitempty"`
	Postcode         string  `json:"postcode" validate:"required"`
	Message          string  `json:"message" validate:"required"`
	Consent          Flag    `json:"consent" validate:"truthy"`
	Emergency        Flag    `json:"emergency"`
	PreferredContact string  `json:"preferredContact,omitempty"`
	Company          string  `json:"company,omitempty"`
	TimeSinceLoad    Elapsed `json:"timeSinceLoad,omitempty"`
}

// Normalize trims surrounding whitespace from every free-text field.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
	s.Postcode = strings.TrimSpace(s.Postcode)
	s.Message = strings.TrimSpace(s.Message)
	s.PreferredContact = strings.TrimSpace(s.PreferredContact)
	s.Company = strings.TrimSpace(s.Company)
}

// IsHoneypotTripped reports whether the hidden company field was filled in.
// Any value counts, whitespace included, so it must run before Normalize.
func (s *Submission) IsHoneypotTripped() bool {
	return s.Company != ""
}

// submissionWire mirrors Submission with loosely typed text fields.
type submissionWire struct {
	Name             Text    `json:"name"`
	Phone            Text    `json:"phone"`
	Email            Text    `json:"email"`
	Postcode         Text    `json:"postcode"`
	Message          Text    `json:"message"`
	Consent          Flag    `json:"consent"`
	Emergency        Flag    `json:"emergency"`
	PreferredContact Text    `json:"preferredContact"`
	Company          Text    `json:"company"`
	TimeSinceLoad    Elapsed `json:"timeSinceLoad"`
}

// UnmarshalJSON accepts text fields sent as numbers or booleans, so a
// numeric phone is kept and a numeric company still trips the honeypot.
func (s *Submission) UnmarshalJSON(data []byte) error {
	var w submissionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Submission{
		Name:             string(w.Name),
		Phone:            string(w.Phone),
		Email:            string(w.Email),
		Postcode:         string(w.Postcode),
		Message:          string(w.Message),
		Consent:          w.Consent,
		Emergency:        w.Emergency,
		PreferredContact: string(w.PreferredContact),
		Company:          string(w.Company),
		TimeSinceLoad:    w.TimeSinceLoad,
	}
	return nil
}

// Text is a free-text field decoded from any JSON scalar. Numbers keep their
// decimal form and true becomes "true". Null, false and zero decode as
// empty. Objects and arrays keep their raw JSON.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(val)
	case bool:
		if val {
			*t = "true"
		} else {
			*t = ""
		}
	case float64:
		if val == 0 {
			*t = ""
		} else {
			*t = Text(strconv.FormatFloat(val, 'f', -1, 64))
		}
	default:
		*t = Text(bytes.TrimSpace(data))
	}
	return nil
}

// Flag is a boolean that accepts the loose values browsers and form
// serializers produce: JSON booleans, "on"/"yes"/"true" style strings and
// numbers. An absent or null flag is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		*f = Flag(s != "" && s != "false" && s != "0" && s != "off" && s != "no")
	case float64:
		*f = Flag(val != 0)
	default:
		// Objects and arrays are truthy, matching how a browser script treats them.
		*f = true
	}
	return nil
}

// MarshalJSON always emits a JSON boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(f))), nil
}

// Elapsed is the number of milliseconds between the form rendering and its
// submission. Only a JSON number counts as present; strings or other types
// leave the timing heuristic disabled for that submission.
type Elapsed struct {
	Millis  float64
	Present bool
}

// ElapsedMillis builds a present Elapsed value.
func ElapsedMillis(ms float64) Elapsed {
	return Elapsed{Millis: ms, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Elapsed) UnmarshalJSON(data []byte) error {
	*e = Elapsed{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if n, ok := v.(float64); ok {
		e.Millis = n
		e.Present = true
	}
	return nil
}

// MarshalJSON emits the number of milliseconds, or null when absent.
func (e Elapsed) MarshalJSON() ([]byte, error) {
	if !e.Present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(e.Millis, 'f', -1, 64)), nil
}

// maxElapsedMillis is the largest millisecond count a time.Duration holds.
const maxElapsedMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// Duration converts the elapsed milliseconds to a time.Duration, saturating
// at the representable range.
func (e Elapsed) Duration() time.Duration {
	switch {
	case e.Millis >= maxElapsedMillis:
		return time.Duration(math.MaxInt64)
	case e.Millis <= -maxElapsedMillis:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(e.Millis * float64(time.Millisecond))
}

// Before reports whether fewer than d have elapsed. The comparison is done
// in milliseconds so very large values cannot overflow.
func (e Elapsed) Before(d time.Duration) bool {
	return e.Millis < float64(d)/float64(time.Millisecond)
}
