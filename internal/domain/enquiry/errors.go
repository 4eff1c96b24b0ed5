package enquiry

import "errors"

// Validation and spam outcomes. Each maps to a distinct client-facing message.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrSpamDetected  = errors.New("spam detected")
	ErrRateLimited   = errors.New("too many requests")
)
