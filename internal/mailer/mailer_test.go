package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"complytrack/internal/config"
)

func TestNewSMTP(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		s, err := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", Username: "u", Password: "p", UseTLS: true})
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("missing host", func(t *testing.T) {
		_, err := NewSMTP(config.MailConfig{From: "noreply@example.com"})
		assert.EqualError(t, err, "mail server is required")
	})

	t.Run("missing sender", func(t *testing.T) {
		_, err := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 25})
		assert.EqualError(t, err, "mail sender address is required")
	})
}

func TestBuildMessage(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		msg, err := buildMessage("noreply@example.com", "owner@x.com", "Permit expires in 7 days", "<p>hi</p>")
		require.NoError(t, err)
		assert.Equal(t, []string{"Permit expires in 7 days"}, msg.GetGenHeader(mail.HeaderSubject))
	})

	t.Run("missing recipient", func(t *testing.T) {
		_, err := buildMessage("noreply@example.com", "", "s", "b")
		assert.ErrorIs(t, err, ErrRecipientRequired)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		_, err := buildMessage("noreply@example.com", "not an address", "s", "b")
		assert.ErrorContains(t, err, "invalid recipient")
	})
}

func TestSend_RejectsEmptyRecipient(t *testing.T) {
	s, err := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), "", "s", "b"), ErrRecipientRequired)
}
