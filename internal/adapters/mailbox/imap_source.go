// Package mailbox reads mail over IMAP and submits replies over SMTP for
// mailboxes that are not served by the Gmail API.
package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/mime"
)

// IMAPSource implements core.MailSource over an IMAP connection.
// Messages are fetched with BODY.PEEK so reading them does not mark them seen.
type IMAPSource struct {
	cfg    config.IMAPConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *client.Client
}

// NewIMAPSource creates an IMAP mail source. The connection is opened on first use.
func NewIMAPSource(cfg config.IMAPConfig, logger *zap.Logger) *IMAPSource {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPSource{
		cfg:    cfg,
		logger: logger,
	}
}

// connect must be called with mu held
func (s *IMAPSource) connect() error {
	if s.client != nil {
		return nil
	}

	var (
		c   *client.Client
		err error
	)
	if s.cfg.TLS {
		c, err = client.DialTLS(s.cfg.Address, nil)
	} else {
		c, err = client.Dial(s.cfg.Address)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		c.Logout()
		return fmt.Errorf("failed to login: %w", err)
	}

	if _, err := c.Select(s.cfg.Mailbox, true); err != nil {
		c.Logout()
		return fmt.Errorf("failed to select mailbox %s: %w", s.cfg.Mailbox, err)
	}

	s.logger.Info("Connected to IMAP server",
		zap.String("address", s.cfg.Address),
		zap.String("mailbox", s.cfg.Mailbox))
	s.client = c
	return nil
}

// ListUnread returns the UIDs of up to max unseen messages, newest first
func (s *IMAPSource) ListUnread(ctx context.Context, max int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connect(); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search unseen messages: %w", err)
	}

	sort.Slice(uids, func(i, j int) bool { return uids[i] > uids[j] })
	if max > 0 && int64(len(uids)) > max {
		uids = uids[:max]
	}

	ids := make([]string, len(uids))
	for i, uid := range uids {
		ids[i] = strconv.FormatUint(uint64(uid), 10)
	}

	s.logger.Debug("Listed unread messages", zap.Int("count", len(ids)))
	return ids, nil
}

// Fetch retrieves and decodes the message with the given UID. The ID of the
// result is its Message-ID, or "imap:<uid>" when the header is missing.
func (s *IMAPSource) Fetch(ctx context.Context, id string) (*core.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid IMAP uid %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connect(); err != nil {
		return nil, err
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))
	section := &imap.BodySectionName{Peek: true}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqSet, []imap.FetchItem{imap.FetchUid, section.FetchItem()}, messages)
	}()

	var raw []byte
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		if raw, err = io.ReadAll(body); err != nil {
			<-done
			return nil, fmt.Errorf("failed to read message %s: %w", id, err)
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("message %s not found", id)
	}

	email, err := mime.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if email.ID == "" {
		email.ID = "imap:" + id
	}
	return email, nil
}

// Close logs out of the server
func (s *IMAPSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Logout()
	s.client = nil
	return err
}
