package filter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/mime"
	"github.com/mikey/mail-triage/internal/sender"
)

const processTimeout = 10 * time.Second

// PostfixFilter implements a Postfix content filter that tags messages with
// their category and meeting intent before handing them back to Postfix
type PostfixFilter struct {
	service  *core.TriageService
	logger   *zap.Logger
	cfg      config.ServerConfig
	server   *smtp.Server
	listener net.Listener
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(service *core.TriageService, cfg config.ServerConfig, logger *zap.Logger) *PostfixFilter {
	if cfg.CategoryHeader == "" {
		cfg.CategoryHeader = "X-Mail-Category"
	}
	if cfg.MeetingHeader == "" {
		cfg.MeetingHeader = "X-Meeting-Intent"
	}
	if cfg.SubjectPrefix == "" && cfg.ModifySubject {
		cfg.SubjectPrefix = "[SPAM] "
	}

	return &PostfixFilter{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start starts listening for mail from Postfix
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	l, err := net.Listen("tcp", f.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.cfg.ListenAddress, err)
	}
	f.listener = l

	f.logger.Info("Postfix filter starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := f.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the filter listens on once started
func (f *PostfixFilter) Addr() string {
	if f.listener == nil {
		return f.cfg.ListenAddress
	}
	return f.listener.Addr().String()
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail triages a decoded message
func (f *PostfixFilter) ProcessEmail(ctx context.Context, email *core.Email) core.TriageResult {
	return f.service.Triage(ctx, email)
}

// handleMessage triages a raw message and forwards the tagged copy.
// SPAM is refused with a 550 when blocking is enabled. Messages that cannot be
// parsed are forwarded untouched.
func (f *PostfixFilter) handleMessage(ctx context.Context, envelopeFrom string, recipients []string, raw []byte) error {
	email, err := mime.Parse(bytes.NewReader(raw))
	if err != nil {
		f.logger.Warn("Failed to parse email message, forwarding without verdict",
			zap.Error(err),
			zap.String("sender", envelopeFrom))
		return f.forward(envelopeFrom, recipients, raw)
	}
	if email.From == "" {
		email.From = envelopeFrom
	}
	if len(email.To) == 0 {
		email.To = recipients
	}

	result := f.ProcessEmail(ctx, email)
	senderDomain := sender.Domain(email.From)

	if result.Category == core.CategorySpam && f.cfg.BlockSpam {
		f.logger.Info("Rejecting spam email",
			zap.String("from", email.From),
			zap.String("sender_domain", senderDomain))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      "Rejected as spam",
		}
	}

	tagged, err := f.Rewrite(raw, result)
	if err != nil {
		f.logger.Error("Failed to rewrite message", zap.Error(err))
		return err
	}

	if err := f.forward(envelopeFrom, recipients, tagged); err != nil {
		return err
	}

	f.logger.Info("Processed email",
		zap.String("from", email.From),
		zap.String("sender_domain", senderDomain),
		zap.String("category", string(result.Category)),
		zap.Bool("has_meeting", result.HasMeeting),
		zap.Bool("cached", result.Cached))

	return nil
}

// Rewrite adds the triage headers to raw and prefixes the subject of SPAM when
// configured. The body is copied unchanged.
func (f *PostfixFilter) Rewrite(raw []byte, result core.TriageResult) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	h, err := textproto.ReadHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}

	h.Del(f.cfg.CategoryHeader)
	h.Del(f.cfg.MeetingHeader)
	h.Add(f.cfg.CategoryHeader, string(result.Category))
	h.Add(f.cfg.MeetingHeader, strconv.FormatBool(result.HasMeeting))

	if result.Category == core.CategorySpam && f.cfg.ModifySubject && f.cfg.SubjectPrefix != "" {
		mh := mail.Header{Header: message.Header{Header: h}}
		subject, err := mh.Subject()
		if err != nil {
			subject = h.Get("Subject")
		}
		if !strings.HasPrefix(subject, f.cfg.SubjectPrefix) {
			mh.SetSubject(f.cfg.SubjectPrefix + subject)
			h = mh.Header.Header
		}
	}

	var out bytes.Buffer
	if err := textproto.WriteHeader(&out, h); err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.Copy(&out, br); err != nil {
		return nil, fmt.Errorf("failed to copy message body: %w", err)
	}
	return out.Bytes(), nil
}

func (f *PostfixFilter) forward(envelopeFrom string, recipients []string, data []byte) error {
	if !f.cfg.PostfixEnabled {
		f.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
		return nil
	}
	if err := f.sendToPostfix(envelopeFrom, recipients, data); err != nil {
		f.logger.Error("Failed to send email back to Postfix",
			zap.Error(err),
			zap.String("sender", envelopeFrom))
		return err
	}
	return nil
}

// sendToPostfix re-injects the processed email into Postfix
func (f *PostfixFilter) sendToPostfix(from string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.cfg.PostfixAddress, strconv.Itoa(f.cfg.PostfixPort))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", rcpt),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// already delivered
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	from       string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.from = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()
	return s.filter.handleMessage(ctx, s.from, s.recipients, raw)
}

func (s *smtpSession) Logout() error {
	return nil
}
