package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/mime"
)

const me = "me"

// GmailClient reads and sends mail for the authorized user
type GmailClient struct {
	users  *gmail.UsersService
	query  string
	logger *zap.Logger
}

// NewGmailClient creates a Gmail client. query selects the messages ListUnread returns.
func NewGmailClient(ctx context.Context, query string, logger *zap.Logger, opts ...option.ClientOption) (*GmailClient, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	if query == "" {
		query = "is:unread"
	}
	return &GmailClient{
		users:  svc.Users,
		query:  query,
		logger: logger,
	}, nil
}

// ListUnread returns the IDs of up to max messages matching the query
func (c *GmailClient) ListUnread(ctx context.Context, max int64) ([]string, error) {
	call := c.users.Messages.List(me).Q(c.query).Context(ctx)
	if max > 0 {
		call = call.MaxResults(max)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}

	c.logger.Debug("Listed messages", zap.String("query", c.query), zap.Int("count", len(ids)))
	return ids, nil
}

// Fetch downloads a message in raw form and decodes it
func (c *GmailClient) Fetch(ctx context.Context, id string) (*core.Email, error) {
	msg, err := c.users.Messages.Get(me, id).Format("raw").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw, err := decodeRaw(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode message %s: %w", id, err)
	}

	email, err := mime.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message %s: %w", id, err)
	}
	email.ID = id
	return email, nil
}

// Send delivers a plain text message from the authorized user
func (c *GmailClient) Send(ctx context.Context, to, subject, body string) error {
	raw, err := mime.Build("", to, subject, body)
	if err != nil {
		return err
	}

	sent, err := c.users.Messages.Send(me, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.logger.Info("Message sent", zap.String("to", to), zap.String("message_id", sent.Id))
	return nil
}

// decodeRaw accepts base64url with or without padding
func decodeRaw(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
