package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewLogSender(zap.New(core).Sugar())

	err := sender.Send(context.Background(), Message{
		To:      "test@example.com",
		Subject: "Test Subject",
		HTML:    "<h1>Hello</h1>",
		Text:    "Hello",
	})
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("dev mode").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "test@example.com", fields["to"])
	assert.Equal(t, "Test Subject", fields["subject"])
	assert.Equal(t, "Hello", fields["text"])
}

func TestSMTPSenderBuildsMultipartMessage(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", 587, "sender@example.com", "secret")

	m := sender.build(Message{
		To:      "u@x.com",
		Subject: "[Your Tasks For Today] You have 1 tasks that require your attention.",
		HTML:    "<ul><li>buy milk</li></ul>",
		Text:    "- buy milk",
	})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "From: sender@example.com")
	assert.Contains(t, raw, "To: u@x.com")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "buy milk")
}

func TestSMTPSenderHTMLOnly(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", 587, "sender@example.com", "secret")

	var buf bytes.Buffer
	_, err := sender.build(Message{To: "u@x.com", Subject: "s", HTML: "<p>hi</p>"}).WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.False(t, strings.Contains(raw, "multipart/alternative"))
	assert.Contains(t, raw, "Content-Type: text/html")
}

func TestSMTPSenderHonoursCancelledContext(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com", 587, "sender@example.com", "secret")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, Message{To: "u@x.com", Subject: "s", HTML: "<p>hi</p>"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMailDeliveryFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}
