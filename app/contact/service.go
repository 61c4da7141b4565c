package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type RateLimiter interface {
	IsLimited(key string) bool
}

type Config struct {
	From       string
	Recipients []string
}

// Service handles contact form submissions. Each accepted submission produces
// exactly one outbound message; limited, honeypot and invalid ones produce none.
type Service struct {
	limiter RateLimiter
	mailer  Mailer
	config  Config
	now     func() time.Time
}

func NewService(limiter RateLimiter, mailer Mailer, config Config) *Service {
	return &Service{
		limiter: limiter,
		mailer:  mailer,
		config:  config,
		now:     time.Now,
	}
}

// Submit runs the rate check, honeypot, validation and delivery in that order.
// A tripped honeypot returns a nil error and an empty receipt.
func (s *Service) Submit(ctx context.Context, clientKey string, sub Submission) (Receipt, error) {
	if s.limiter.IsLimited(clientKey) {
		slog.Warn("Contact submission rate limited", "client", clientKey)
		return Receipt{}, ErrRateLimited
	}

	// Any content in the hidden field trips the honeypot, whitespace included.
	if sub.CompanyURL != "" {
		slog.Info("Contact submission discarded by honeypot", "client", clientKey)
		return Receipt{}, nil
	}

	sub = sub.normalized()

	if err := validate(sub); err != nil {
		return Receipt{}, err
	}

	reference := uuid.New().String()
	msg, err := s.compose(sub, reference)
	if err != nil {
		slog.Error("Failed to compose contact message", "reference", reference, "error", err)
		return Receipt{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("Failed to deliver contact message", "reference", reference, "client", clientKey, "error", err)
		return Receipt{}, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	slog.Info("Contact submission delivered", "reference", reference, "client", clientKey, "practice", sub.Practice)

	return Receipt{Reference: reference, Delivered: true}, nil
}

func (s *Service) compose(sub Submission, reference string) (Message, error) {
	received := s.now()

	html, err := htmlBody(sub, reference, received)
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:     s.config.From,
		To:       s.config.Recipients,
		ReplyTo:  sub.Email,
		Subject:  subject(sub),
		TextBody: textBody(sub, reference, received),
		HTMLBody: html,
	}, nil
}
