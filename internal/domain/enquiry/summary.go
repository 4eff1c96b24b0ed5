package enquiry

import "strings"

const (
	notProvided  = "(not provided)"
	notSpecified = "(not specified)"
)

// BuildSummary renders the plain-text body sent to the business. The layout
// is fixed so recipients can scan enquiries consistently.
func BuildSummary(s *Submission) string {
	email := s.Email
	if email == "" {
		email = notProvided
	}
	preferred := s.PreferredContact
	if preferred == "" {
		preferred = notSpecified
	}
	emergency := "No"
	if s.Emergency {
		emergency = "Yes"
	}

	return strings.Join([]string{
		"Name: " + s.Name,
		"Phone: " + s.Phone,
		"Email: " + email,
		"Postcode: " + s.Postcode,
		"Emergency: " + emergency,
		"Preferred contact: " + preferred,
		"Message: " + s.Message,
	}, "\n")
}

// Subject is the email subject line for a submission.
func Subject(s *Submission) string {
	return "New website enquiry from " + s.Name
}
