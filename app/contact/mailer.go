package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer delivers messages through an SMTP relay, one connection per message.
type SMTPMailer struct {
	config SMTPConfig
}

func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mailMsg, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := m.newClient()
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, mailMsg); err != nil {
		return fmt.Errorf("failed to send via %s:%d: %w", m.config.Host, m.config.Port, err)
	}

	return nil
}

// newClient uses implicit TLS on port 465 and mandatory STARTTLS on any other
// port. The configured port is applied last so the TLS policy cannot rewrite it.
func (m *SMTPMailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTimeout(m.config.Timeout),
	}

	if m.config.Port == mail.DefaultPortSSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if m.config.Port != 0 {
		opts = append(opts, mail.WithPort(m.config.Port))
	}

	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	return mail.NewClient(m.config.Host, opts...)
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()

	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", msg.ReplyTo, err)
		}
	}

	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	return m, nil
}

// LogMailer writes messages to the log instead of sending them. Used when no
// SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	slog.Info("Contact message (not sent, SMTP disabled)",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject)
	slog.Debug("Contact message body", "body", msg.TextBody)
	return nil
}
