package enquiry

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultMinSubmitDelay is the fastest a human is expected to fill the form.
const DefaultMinSubmitDelay = 1500 * time.Millisecond

// RequiredFields lists the fields the form must carry, in display order.
var RequiredFields = []string{"name", "phone", "postcode", "message", "consent"}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("truthy", func(fl validator.FieldLevel) bool {
			return fl.Field().Bool()
		})
	})
	return validate
}

// IsPlausibleEmail applies the loose address check used on both sides of the
// form. It only guards against obvious typos.
func IsPlausibleEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// MissingFields returns the JSON names of required fields that are empty.
// The submission is expected to be normalized first.
func MissingFields(s *Submission) []string {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append([]string(nil), RequiredFields...)
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, jsonName(fe.StructField()))
	}
	return missing
}

func jsonName(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "Postcode":
		return "postcode"
	case "Message":
		return "message"
	case "Consent":
		return "consent"
	default:
		return field
	}
}

// Validate runs the server-side checks in order: required fields, email
// format, then the timing heuristic. minDelay <= 0 disables the timing check.
func Validate(s *Submission, minDelay time.Duration) error {
	if missing := MissingFields(s); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}

	if s.Email != "" && !IsPlausibleEmail(s.Email) {
		return ErrInvalidEmail
	}

	if minDelay > 0 && s.TimeSinceLoad.Present && s.TimeSinceLoad.Before(minDelay) {
		return fmt.Errorf("%w: submitted after %gms", ErrSpamDetected, s.TimeSinceLoad.Millis)
	}

	return nil
}
