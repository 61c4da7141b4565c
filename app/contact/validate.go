package contact

import (
	"net/mail"
	"regexp"
)

const (
	msgRequiredFields = "Name, email, and message are required"
	msgInvalidEmail   = "Please provide a valid email address"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func validate(s Submission) error {
	if s.Name == "" || s.Email == "" || s.Message == "" {
		return &InputError{Message: msgRequiredFields}
	}

	if !emailPattern.MatchString(s.Email) || !isBareAddress(s.Email) {
		return &InputError{Message: msgInvalidEmail}
	}

	return nil
}

// isBareAddress reports whether email parses as a plain RFC 5322 address with
// no display name or comments. The reply-to header is built from it as is.
func isBareAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == email
}
