package mailbox

import (
	"bytes"
	"context"
	"fmt"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/mime"
	"github.com/mikey/mail-triage/internal/sender"
)

// SMTPSender implements core.MailSender by submitting mail to an SMTP server.
// STARTTLS is used when the server offers it, and AUTH PLAIN when a username is set.
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPSender creates a sender. A From address is required.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Send delivers a plain text message to one recipient
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := mime.Build(s.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if s.cfg.Username != "" {
		auth = sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
	}

	rcpt := sender.ExtractAddress(to)
	if err := smtp.SendMail(s.cfg.Address, auth, sender.ExtractAddress(s.cfg.From), []string{rcpt}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent", zap.String("to", rcpt), zap.String("subject", subject))
	return nil
}
