package contact

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var htmlTemplate = template.Must(template.New("contact").Parse(`<h2>New contact form submission</h2>
<table>
  <tr><td><strong>Name</strong></td><td>{{.Submission.Name}}</td></tr>
  <tr><td><strong>Email</strong></td><td><a href="mailto:{{.Submission.Email}}">{{.Submission.Email}}</a></td></tr>
{{- if .Submission.Phone}}
  <tr><td><strong>Phone</strong></td><td>{{.Submission.Phone}}</td></tr>
{{- end}}
{{- if .Submission.Practice}}
  <tr><td><strong>Practice</strong></td><td>{{.Submission.Practice}}</td></tr>
{{- end}}
</table>
<h3>Message</h3>
<p style="white-space: pre-wrap">{{.Submission.Message}}</p>
<p style="color: #888; font-size: 12px">Reference {{.Reference}} &middot; received {{.Received}}</p>
`))

func subject(s Submission) string {
	subject := fmt.Sprintf("New contact form submission from %s", s.Name)
	if s.Practice != "" {
		subject += fmt.Sprintf(" (%s)", s.Practice)
	}
	return subject
}

func textBody(s Submission, reference string, received time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", s.Name)
	fmt.Fprintf(&b, "Email: %s\n", s.Email)
	if s.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	}
	if s.Practice != "" {
		fmt.Fprintf(&b, "Practice: %s\n", s.Practice)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", s.Message)
	fmt.Fprintf(&b, "\n--\nReference: %s\nReceived: %s\n", reference, received.Format(time.RFC1123Z))

	return b.String()
}

func htmlBody(s Submission, reference string, received time.Time) (string, error) {
	var b strings.Builder

	err := htmlTemplate.Execute(&b, struct {
		Submission Submission
		Reference  string
		Received   string
	}{
		Submission: s,
		Reference:  reference,
		Received:   received.Format(time.RFC1123Z),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render HTML body: %w", err)
	}

	return b.String(), nil
}
