package contact

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through an SMTP relay such as Gmail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSMTPSender authenticates as user on host:port.
func NewSMTPSender(host string, port int, user, pass, from, to string) (*SMTPSender, error) {
	if user == "" || pass == "" {
		return nil, fmt.Errorf("SMTP credentials: %w", ErrNotConfigured)
	}
	if from == "" {
		from = user
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     to,
	}, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, form Form) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, text, html := compose(form)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Reply-To", form.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}

// NoopSender reports every submission as undeliverable. It stands in when
// no mail transport is configured so the form still renders its error.
type NoopSender struct{}

// Send implements Sender.
func (NoopSender) Send(context.Context, Form) error {
	return ErrNotConfigured
}
