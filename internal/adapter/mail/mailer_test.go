package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"gita-assistant/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	t.Run("Should address the relay and include headers", func(t *testing.T) {
		m := NewSMTPMailer("smtp.example.com", 587, "user", "secret", "gita@example.com")
		var gotAddr string
		var gotTo []string
		var gotMsg []byte
		m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, msg
			return nil
		}
		require.NoError(t, m.Send(context.Background(), "a@b.com", "Verify your email", "code 123456"))
		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, []string{"a@b.com"}, gotTo)
		assert.Contains(t, string(gotMsg), "Subject: Verify your email\r\n")
		assert.Contains(t, string(gotMsg), "\r\n\r\ncode 123456")
	})

	t.Run("Should wrap relay errors", func(t *testing.T) {
		m := NewSMTPMailer("smtp.example.com", 25, "", "", "gita@example.com")
		m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("550 rejected") }
		err := m.Send(context.Background(), "a@b.com", "s", "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "550 rejected")
	})

	t.Run("Should stop waiting when the context ends", func(t *testing.T) {
		m := NewSMTPMailer("smtp.example.com", 25, "", "", "gita@example.com")
		release := make(chan struct{})
		defer close(release)
		m.send = func(string, smtp.Auth, string, []string, []byte) error { <-release; return nil }
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, m.Send(ctx, "a@b.com", "s", "b"), context.DeadlineExceeded)
	})
}

func TestLogMailer_Send(t *testing.T) {
	m := NewLogMailer(logger.NewForTests())
	assert.NoError(t, m.Send(context.Background(), "a@b.com", "s", "b"))
}
