package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender logs emails instead of sending them.
// Useful for development and testing.
type LogSender struct {
	logger *zap.SugaredLogger
}

// NewLogSender creates a new log-based email sender.
func NewLogSender(logger *zap.SugaredLogger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the email details.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Infow("EMAIL (dev mode - not actually sent)",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
