package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/config"
)

// Envelope is one outbound HTML e-mail.
type Envelope struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers e-mails.
type Mailer interface {
	Send(ctx context.Context, env Envelope) error
}

// New picks the SMTP mailer when a host is configured and the log mailer otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		logger.Warn("SMTP_HOST not provided; verification e-mails are only logged")
		return NewLogMailer(cfg.From, logger)
	}
	return NewSMTPMailer(cfg)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	cfg      config.MailConfig
	sendMail sendMailFunc
}

// NewSMTPMailer builds an SMTP mailer.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

// Send delivers env. The context is only checked before dialing; net/smtp has no cancellation.
func (m *SMTPMailer) Send(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	if err := m.sendMail(addr, auth, m.cfg.From, []string{env.To}, buildMessage(m.cfg.From, env)); err != nil {
		return fmt.Errorf("send mail to %s: %w", env.To, err)
	}
	return nil
}

func buildMessage(from string, env Envelope) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", env.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", env.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(env.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogMailer writes e-mails to the log instead of sending them.
type LogMailer struct {
	from   string
	logger *zap.Logger
}

// NewLogMailer builds a log-only mailer.
func NewLogMailer(from string, logger *zap.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

// Send logs env and never fails.
func (m *LogMailer) Send(_ context.Context, env Envelope) error {
	m.logger.Info("outbound e-mail",
		zap.String("from", m.from),
		zap.String("to", env.To),
		zap.String("subject", env.Subject),
		zap.Int("html_bytes", len(env.HTML)),
	)
	return nil
}
