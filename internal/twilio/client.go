package twilio

import (
	"context"
	"fmt"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Client sends operator alerts over WhatsApp.
type Client struct {
	client       *twilio.RestClient
	fromWhatsApp string
	alertTo      string
	logger       *zap.SugaredLogger
}

// New creates a Twilio client that sends from fromWhatsApp to the operator number alertTo.
func New(accountSID, authToken, fromWhatsApp, alertTo string, logger *zap.SugaredLogger) *Client {
	return &Client{
		client:       twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		fromWhatsApp: fromWhatsApp,
		alertTo:      alertTo,
		logger:       logger,
	}
}

// Alert delivers text to the operator number. The Twilio REST client takes no
// context, so ctx is only checked before the request is made.
func (c *Client) Alert(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("twilio alert: %w", err)
	}
	return c.SendWhatsAppMessage(c.alertTo, text)
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio's API.
func (c *Client) SendWhatsAppMessage(to, body string) error {
	if c.client == nil {
		return fmt.Errorf("twilio client not initialised")
	}

	sender := normalizeWhatsAppAddress(c.fromWhatsApp)
	if sender == "" {
		return fmt.Errorf("twilio sender WhatsApp number is not configured")
	}

	recipient := normalizeWhatsAppAddress(to)
	if recipient == "" {
		return fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send message error: %w", err)
	}

	if resp.Sid != nil {
		c.logger.Infow("twilio message sent", "to", recipient, "sid", *resp.Sid)
	}
	return nil
}

func normalizeWhatsAppAddress(number string) string {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "whatsapp:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		return "whatsapp:" + trimmed
	}
	return "whatsapp:+" + trimmed
}
