package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/mailbox"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
)

// Mailbox bundles the collaborators the interactive flows need.
// Scheduler is nil when no calendar is configured.
type Mailbox struct {
	Source    core.MailSource
	Sender    core.MailSender
	Scheduler core.CalendarScheduler
	close     func() error
}

// Close releases the mailbox connection, if any
func (m *Mailbox) Close() error {
	if m.close == nil {
		return nil
	}
	return m.close()
}

// MailboxFactory selects Gmail or IMAP/SMTP based on mail.source
type MailboxFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	google *GoogleFactory
}

// NewMailboxFactory creates a new mailbox factory
func NewMailboxFactory(cfg *config.Config, logger *zap.Logger, google *GoogleFactory) *MailboxFactory {
	return &MailboxFactory{
		cfg:    cfg,
		logger: logger,
		google: google,
	}
}

// CreateMailbox creates the mail source, sender and scheduler
func (f *MailboxFactory) CreateMailbox(ctx context.Context) (*Mailbox, error) {
	mc := f.cfg.GetMail()
	f.logger.Debug("Creating mailbox", zap.String("source", mc.Source))

	switch mc.Source {
	case "", "gmail":
		gmail, cal, err := f.google.CreateClients(ctx)
		if err != nil {
			return nil, err
		}
		return &Mailbox{Source: gmail, Sender: gmail, Scheduler: cal}, nil

	case "imap":
		sender, err := mailbox.NewSMTPSender(mc.SMTP, f.logger)
		if err != nil {
			return nil, err
		}
		source := mailbox.NewIMAPSource(mc.IMAP, f.logger)
		mb := &Mailbox{Source: source, Sender: sender, close: source.Close}

		if mc.GoogleCalendar {
			_, cal, err := f.google.CreateClients(ctx)
			if err != nil {
				return nil, err
			}
			mb.Scheduler = cal
		}
		return mb, nil

	default:
		return nil, fmt.Errorf("unsupported mail source: %s", mc.Source)
	}
}
