package mailbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	imapclient "github.com/emersion/go-imap/client"
	imapserver "github.com/emersion/go-imap/server"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
)

var (
	_ core.MailSource = (*IMAPSource)(nil)
	_ core.MailSender = (*SMTPSender)(nil)
)

// The memory backend has a single user with these credentials
const (
	imapUser     = "username"
	imapPassword = "password"
)

func startIMAP(t *testing.T) string {
	t.Helper()
	s := imapserver.New(memory.New())
	s.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go s.Serve(l)
	t.Cleanup(func() { s.Close() })
	return l.Addr().String()
}

func appendUnseen(t *testing.T, addr, raw string) {
	t.Helper()
	c, err := imapclient.Dial(addr)
	require.NoError(t, err)
	defer c.Logout()
	require.NoError(t, c.Login(imapUser, imapPassword))
	require.NoError(t, c.Append("INBOX", nil, time.Now(), bytes.NewBufferString(raw)))
}

func TestIMAPSource(t *testing.T) {
	addr := startIMAP(t)
	appendUnseen(t, addr, "From: Bob <bob@company.com>\r\n"+
		"To: alice@example.com\r\n"+
		"Subject: Project meeting\r\n"+
		"Message-ID: <sync-1@company.com>\r\n"+
		"Content-Type: text/plain\r\n"+
		"\r\n"+
		"Can we schedule a meeting tomorrow?\r\n")

	src := NewIMAPSource(config.IMAPConfig{
		Address:  addr,
		Username: imapUser,
		Password: imapPassword,
	}, zaptest.NewLogger(t))
	defer src.Close()

	ctx := context.Background()
	ids, err := src.ListUnread(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	var found *core.Email
	for _, id := range ids {
		email, err := src.Fetch(ctx, id)
		require.NoError(t, err)
		if email.Subject == "Project meeting" {
			found = email
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "sync-1@company.com", found.ID)
	assert.Equal(t, "Bob <bob@company.com>", found.From)
	assert.Contains(t, found.Body, "schedule a meeting")

	// peeking leaves the message unseen
	again, err := src.ListUnread(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, ids, again)
}

func TestIMAPSourceLimit(t *testing.T) {
	addr := startIMAP(t)
	for _, subject := range []string{"one", "two", "three"} {
		appendUnseen(t, addr, "From: a@example.com\r\nSubject: "+subject+"\r\n\r\nbody\r\n")
	}

	src := NewIMAPSource(config.IMAPConfig{Address: addr, Username: imapUser, Password: imapPassword}, zaptest.NewLogger(t))
	defer src.Close()

	ids, err := src.ListUnread(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	newest, err := src.Fetch(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "three", newest.Subject)
	assert.True(t, strings.HasPrefix(newest.ID, "imap:"))
}

func TestIMAPSourceErrors(t *testing.T) {
	addr := startIMAP(t)

	bad := NewIMAPSource(config.IMAPConfig{Address: addr, Username: imapUser, Password: "wrong"}, zaptest.NewLogger(t))
	_, err := bad.ListUnread(context.Background(), 10)
	assert.ErrorContains(t, err, "failed to login")

	src := NewIMAPSource(config.IMAPConfig{Address: addr, Username: imapUser, Password: imapPassword}, zaptest.NewLogger(t))
	defer src.Close()
	_, err = src.Fetch(context.Background(), "not-a-uid")
	assert.ErrorContains(t, err, "invalid IMAP uid")
}

type submission struct {
	mu       sync.Mutex
	username string
	password string
	from     string
	to       []string
	data     []byte
}

func (b *submission) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &submissionSession{b: b}, nil
}

type submissionSession struct {
	b      *submission
	authed bool
}

func (s *submissionSession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *submissionSession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != "bot" || password != "secret" {
			return errors.New("invalid credentials")
		}
		s.b.mu.Lock()
		s.b.username, s.b.password = username, password
		s.b.mu.Unlock()
		s.authed = true
		return nil
	}), nil
}

func (s *submissionSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return smtp.ErrAuthRequired
	}
	s.b.mu.Lock()
	s.b.from = from
	s.b.mu.Unlock()
	return nil
}

func (s *submissionSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.b.mu.Lock()
	s.b.to = append(s.b.to, to)
	s.b.mu.Unlock()
	return nil
}

func (s *submissionSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.b.mu.Lock()
	s.b.data = data
	s.b.mu.Unlock()
	return nil
}

func (s *submissionSession) Reset()        {}
func (s *submissionSession) Logout() error { return nil }

func startSubmission(t *testing.T) (*submission, string) {
	t.Helper()
	b := &submission{}
	srv := smtp.NewServer(b)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(l)
	t.Cleanup(func() { srv.Close() })
	return b, l.Addr().String()
}

func TestSMTPSender(t *testing.T) {
	b, addr := startSubmission(t)

	s, err := NewSMTPSender(config.SMTPConfig{
		Address:  addr,
		Username: "bot",
		Password: "secret",
		From:     "Triage Bot <bot@example.com>",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), "Bob <bob@company.com>", "Re: Project meeting", "Hi,\n\nSounds good.\n\nBest regards"))

	b.mu.Lock()
	defer b.mu.Unlock()
	assert.Equal(t, "bot", b.username)
	assert.Equal(t, "bot@example.com", b.from)
	assert.Equal(t, []string{"bob@company.com"}, b.to)
	assert.Contains(t, string(b.data), "Subject: Re: Project meeting")
	assert.Contains(t, string(b.data), "Sounds good.")
}

func TestSMTPSenderRejected(t *testing.T) {
	_, addr := startSubmission(t)

	s, err := NewSMTPSender(config.SMTPConfig{
		Address:  addr,
		Username: "bot",
		Password: "wrong",
		From:     "bot@example.com",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	err = s.Send(context.Background(), "bob@company.com", "hi", "body")
	assert.ErrorContains(t, err, "failed to send email")
}

func TestNewSMTPSenderRequiresFrom(t *testing.T) {
	_, err := NewSMTPSender(config.SMTPConfig{Address: "localhost:25"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
