// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"regexp"
	"strings"
)

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

type buttonTemplateData struct {
	BackgroundColor string
	URL             template.URL
	TextColor       string
	Text            string
}

// DetailRow is one label/value line in an email details table.
type DetailRow struct {
	Label string
	Value string
}

// Compiled templates for email components
var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding-bottom: 16px;" valign="top">
            <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: auto;">
              <tbody>
                <tr>
                  <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; border-radius: 4px; text-align: center; background-color: {{.BackgroundColor}};" valign="top" align="center" bgcolor="{{.BackgroundColor}}">
                    <a href="{{.URL}}" target="_blank" style="border: solid 2px {{.BackgroundColor}}; border-radius: 4px; box-sizing: border-box; display: inline-block; font-size: 16px; font-weight: bold; margin: 0; padding: 12px 24px; text-decoration: none; background-color: {{.BackgroundColor}}; border-color: {{.BackgroundColor}}; color: {{.TextColor}};">{{.Text}}</a>
                  </td>
                </tr>
              </tbody>
            </table>
          </td>
        </tr>
      </tbody>
    </table>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(
		`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>`))

	detailsTemplate = template.Must(template.New("emailDetails").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: collapse; width: 100%; margin-bottom: 16px;" width="100%">
      <tbody>{{range .}}
        <tr>
          <td style="font-family: Helvetica, sans-serif; font-size: 14px; color: #6b7280; padding: 6px 12px 6px 0; vertical-align: top; white-space: nowrap;" valign="top">{{.Label}}</td>
          <td style="font-family: Helvetica, sans-serif; font-size: 16px; color: #111827; padding: 6px 0; vertical-align: top;" valign="top">{{.Value}}</td>
        </tr>{{end}}
      </tbody>
    </table>`))
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// GetButton renders a call-to-action link. Only http(s), mailto and tel
// targets are accepted; anything else becomes "#".
func GetButton(props ButtonProps) string {
	backgroundColor := sanitizeColor(props.BackgroundColor, "#c2410c")
	textColor := sanitizeColor(props.TextColor, "#ffffff")

	target := sanitizeEmailURL(props.URL)
	if target == "" {
		log.Printf("Invalid or unsafe URL in email button: %q", props.URL)
		target = "#"
	}

	var buf bytes.Buffer
	err := buttonTemplate.Execute(&buf, buttonTemplateData{
		BackgroundColor: backgroundColor,
		URL:             template.URL(target),
		TextColor:       textColor,
		Text:            props.Text,
	})
	if err != nil {
		log.Printf("Error executing email button template: %v", err)
		return `<div style="color: red;">Button template error</div>`
	}
	return buf.String()
}

// GetParagraph renders escaped text, turning newlines into line breaks.
func GetParagraph(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var buf bytes.Buffer
	if err := paragraphTemplate.Execute(&buf, lines); err != nil {
		log.Printf("Error executing email paragraph template: %v", err)
		return `<div style="color: red;">Paragraph template error</div>`
	}
	return buf.String()
}

// GetDetailsTable renders label/value rows with every value escaped.
func GetDetailsTable(rows []DetailRow) string {
	var buf bytes.Buffer
	if err := detailsTemplate.Execute(&buf, rows); err != nil {
		log.Printf("Error executing email details template: %v", err)
		return `<div style="color: red;">Details template error</div>`
	}
	return buf.String()
}

func sanitizeColor(color, fallback string) string {
	if hexColorPattern.MatchString(color) {
		return color
	}
	return fallback
}

// sanitizeEmailURL returns the URL when its scheme is safe for email links.
func sanitizeEmailURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		if parsed.Host == "" {
			return ""
		}
		return parsed.String()
	case "mailto", "tel":
		if parsed.Opaque == "" {
			return ""
		}
		return parsed.String()
	default:
		return ""
	}
}
