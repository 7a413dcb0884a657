package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers mail over an authenticated SMTP connection.
// On port 587 the connection is upgraded with STARTTLS before authenticating.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender that logs in as from with password.
func NewSMTPSender(host string, port int, from, password string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

// Send builds a multipart/alternative message and delivers it synchronously.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: smtp: %w", ErrMailDeliveryFailed, err)
	}
	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return fmt.Errorf("%w: smtp: send to %s: %w", ErrMailDeliveryFailed, msg.To, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m
}
