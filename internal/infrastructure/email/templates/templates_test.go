package templates

import (
	"strings"
	"testing"
)

func TestGetEnquiryEmailContent_EscapesFields(t *testing.T) {
	html := GetEnquiryEmailContent(EnquiryEmailProps{
		Name:     `<script>alert(1)</script>`,
		Phone:    "07790 714880",
		Postcode: "E1 6AN",
		Message:  "Boiler leaking\nNo hot water",
	})

	if strings.Contains(html, "<script>") {
		t.Error("field values must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped name in output")
	}
	if !strings.Contains(html, "Boiler leaking<br>No hot water") {
		t.Error("expected message newlines rendered as line breaks")
	}
	if !strings.Contains(html, `href="tel:07790714880"`) {
		t.Error("expected a dialable tel: link")
	}
	if !strings.Contains(html, "(not provided)") || !strings.Contains(html, "(not specified)") {
		t.Error("expected placeholders for absent optional fields")
	}
	if strings.Contains(html, "mailto:") {
		t.Error("no reply button without an email address")
	}
}

func TestGetEnquiryEmailContent_Emergency(t *testing.T) {
	html := GetEnquiryEmailContent(EnquiryEmailProps{
		Name:      "A",
		Phone:     "123",
		Email:     "a@example.com",
		Postcode:  "X1",
		Emergency: true,
		Message:   "leak",
	})
	if !strings.Contains(html, "Emergency call-out requested") {
		t.Error("expected emergency banner")
	}
	if !strings.Contains(html, `href="mailto:a@example.com"`) {
		t.Error("expected reply-by-email button")
	}
}

func TestGetButton_RejectsUnsafeURL(t *testing.T) {
	html := GetButton(ButtonProps{Text: "Go", URL: "javascript:alert(1)"})
	if strings.Contains(html, "javascript") {
		t.Error("unsafe scheme must not be rendered")
	}
	if !strings.Contains(html, `href="#"`) {
		t.Error("expected fallback anchor")
	}
}

func TestGetEmailLayout_WrapsContent(t *testing.T) {
	html := GetEmailLayout(EmailLayoutProps{Title: "New enquiry", Content: "<p>inner</p>"})
	if !strings.Contains(html, "<p>inner</p>") {
		t.Error("content should be embedded unescaped")
	}
	if !strings.Contains(html, "<title>New enquiry</title>") {
		t.Error("expected title")
	}
}
