package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailerDefaults(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Username: "hr@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, 587, m.config.Port)
	assert.Equal(t, "hr@example.com", m.config.From)
}

func TestNewSMTPMailerRequiresHost(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Username: "hr@example.com"})
	require.Error(t, err)
}

func TestNewSMTPMailerRequiresFromAddress(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	require.Error(t, err)
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Username: "hr@example.com"})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{Subject: "hi", Body: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient")
}

func TestSendHonorsCancelledContext(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Username: "hr@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = m.Send(ctx, Message{To: "x@example.com", Subject: "hi", Body: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeProducesHeadersAndBody(t *testing.T) {
	raw := string(encode("hr@example.com", Message{
		To:      "jane@example.com",
		Subject: "Interview Invitation - Jane",
		Body:    "Hello Jane,\nSee you soon.",
	}))
	assert.Contains(t, raw, "From: hr@example.com\r\n")
	assert.Contains(t, raw, "To: jane@example.com\r\n")
	assert.Contains(t, raw, "Subject: Interview Invitation - Jane\r\n")
	assert.Contains(t, raw, "\r\n\r\nHello Jane,\nSee you soon.")
}
