package contact

import (
	"strings"
)

// Submission is the contact form payload. CompanyURL is a honeypot field that
// the site hides from people.
type Submission struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Practice   string `json:"practice,omitempty"`
	Message    string `json:"message"`
	CompanyURL string `json:"company_url,omitempty"`
}

func (s Submission) normalized() Submission {
	return Submission{
		Name:       strings.TrimSpace(s.Name),
		Email:      strings.TrimSpace(s.Email),
		Phone:      strings.TrimSpace(s.Phone),
		Practice:   strings.TrimSpace(s.Practice),
		Message:    strings.TrimSpace(s.Message),
		CompanyURL: s.CompanyURL,
	}
}

// Receipt identifies an accepted submission. Discarded submissions get an empty one.
type Receipt struct {
	Reference string
	Delivered bool
}

// Message is a composed notification ready for a Mailer.
type Message struct {
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}
