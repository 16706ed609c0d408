package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// Config captures SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers messages over plain SMTP.
type SMTPMailer struct {
	cfg Config
	log zerolog.Logger
}

// NewSMTPMailer creates an SMTPMailer with the given settings.
func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send delivers one message. Context cancellation is honoured between
// messages only; a delivery in flight runs to completion.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}
