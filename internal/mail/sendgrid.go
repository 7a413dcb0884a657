package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends emails using the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender creates a SendGrid sender.
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %w", ErrMailDeliveryFailed, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid: send to %s: status %d", ErrMailDeliveryFailed, msg.To, response.StatusCode)
	}
	return nil
}
