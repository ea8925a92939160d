package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/config"
)

func TestRenderVerification(t *testing.T) {
	env, err := RenderVerification("a@x.com", "alice<script>", "123456", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", env.To)
	assert.Equal(t, "SpeakFree Verification Code", env.Subject)
	assert.Contains(t, env.HTML, "123456")
	assert.Contains(t, env.HTML, "expire in 1 hour")
	assert.NotContains(t, env.HTML, "<script>")
}

func TestHumanizeValidity(t *testing.T) {
	assert.Equal(t, "1 hour", HumanizeValidity(time.Hour))
	assert.Equal(t, "2 hours", HumanizeValidity(2*time.Hour))
	assert.Equal(t, "90 minutes", HumanizeValidity(90*time.Minute))
	assert.Equal(t, "1 minute", HumanizeValidity(time.Minute))
	assert.Equal(t, "30 seconds", HumanizeValidity(30*time.Second))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{
		From:         "noreply@speakfree.local",
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUsername: "user",
		SMTPPassword: "pass",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := m.Send(context.Background(), Envelope{To: "a@x.com", Subject: "Hi", HTML: "<p>code</p>"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@speakfree.local", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hi\r\n")
	assert.Contains(t, string(gotMsg), "<p>code</p>")
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "25"})
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Envelope{To: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNew_FallsBackToLogMailer(t *testing.T) {
	m := New(config.MailConfig{From: "x@y.z"}, zap.NewNop())
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Envelope{To: "a@x.com"}))
}
