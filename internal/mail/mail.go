// Package mail provides email sending with pluggable providers.
package mail

import (
	"context"
	"errors"
)

// ErrMailDeliveryFailed wraps every transport-level send failure.
var ErrMailDeliveryFailed = errors.New("mail delivery failed")

// Message represents an email message to be sent.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string // Plain text fallback
}

// Sender is the interface for email providers.
// Send returns only after the provider has accepted the message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
