package templates

import (
	"strings"
)

type EnquiryEmailProps struct {
	Name             string
	Phone            string
	Email            string
	Postcode         string
	Emergency        bool
	PreferredContact string
	Message          string
}

const emergencyBanner = `<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: bold; margin: 0; margin-bottom: 16px; padding: 12px 16px; border-radius: 8px; background-color: #fee2e2; color: #991b1b;">Emergency call-out requested</p>`

// GetEnquiryEmailContent builds the inner HTML for a new enquiry notification.
func GetEnquiryEmailContent(props EnquiryEmailProps) string {
	email := props.Email
	if email == "" {
		email = "(not provided)"
	}
	preferred := props.PreferredContact
	if preferred == "" {
		preferred = "(not specified)"
	}
	emergency := "No"
	if props.Emergency {
		emergency = "Yes"
	}

	var b strings.Builder
	if props.Emergency {
		b.WriteString(emergencyBanner)
	}

	b.WriteString(GetParagraph("New enquiry from " + props.Name + " via the website contact form."))
	b.WriteString(GetDetailsTable([]DetailRow{
		{Label: "Name", Value: props.Name},
		{Label: "Phone", Value: props.Phone},
		{Label: "Email", Value: email},
		{Label: "Postcode", Value: props.Postcode},
		{Label: "Emergency", Value: emergency},
		{Label: "Preferred contact", Value: preferred},
	}))
	b.WriteString(GetParagraph(props.Message))

	if dial := dialable(props.Phone); dial != "" {
		b.WriteString(GetButton(ButtonProps{Text: "Call " + props.Name, URL: "tel:" + dial}))
	}
	if props.Email != "" {
		b.WriteString(GetButton(ButtonProps{
			Text:            "Reply by email",
			URL:             "mailto:" + props.Email,
			BackgroundColor: "#374151",
		}))
	}

	return b.String()
}

// dialable keeps the characters a tel: link accepts.
func dialable(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
