package contact

import (
	"errors"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRateLimited    = errors.New("rate limited")
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Messages shown to the submitter for errors that carry no detail of their own.
const (
	MsgRateLimited    = "Too many submissions. Please try again later."
	MsgDeliveryFailed = "Failed to send message. Please try again later."
)

// InputError carries a message the submitter can act on.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
