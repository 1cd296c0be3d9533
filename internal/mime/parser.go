// Package mime turns raw RFC 5322 messages into core.Email values and back.
package mime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/mikey/mail-triage/internal/core"
)

// Parse reads a message and decodes its headers and plain text body.
// Multipart messages keep only their text/plain parts, joined by a blank line.
// ID is taken from the Message-ID header and may be empty.
func Parse(r io.Reader) (*core.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	defer mr.Close()

	email := &core.Email{
		From:    headerText(&mr.Header, "From"),
		Subject: headerText(&mr.Header, "Subject"),
	}
	if id, err := mr.Header.MessageID(); err == nil {
		email.ID = id
	}
	if to, err := mr.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}

	topType, _, _ := mr.Header.ContentType()
	multipart := strings.HasPrefix(topType, "multipart/")

	var parts []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) && p == nil {
				continue
			}
			if p == nil {
				// keep what was decoded before the damage
				break
			}
		}

		ct := partContentType(p.Header)
		if multipart && ct != "text/plain" {
			continue
		}
		if !multipart && ct != "" && !strings.HasPrefix(ct, "text/") {
			continue
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		parts = append(parts, strings.ToValidUTF8(string(body), "�"))
	}

	email.Body = strings.Join(parts, "\n\n")
	return email, nil
}

const messageIDHost = "mail-triage"

// Build renders a plain text UTF-8 message ready for submission
func Build(from, to, subject, body string) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetMessageID(uuid.NewString() + "@" + messageIDHost)
	h.SetSubject(subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	if from != "" {
		if err := setAddress(&h, "From", from); err != nil {
			return nil, err
		}
	}
	if err := setAddress(&h, "To", to); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return buf.Bytes(), nil
}

func setAddress(h *mail.Header, key, value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return fmt.Errorf("invalid %s address %q: %w", strings.ToLower(key), value, err)
	}
	h.SetAddressList(key, []*mail.Address{addr})
	return nil
}

// headerText decodes RFC 2047 words, falling back to the raw value
func headerText(h *mail.Header, key string) string {
	if v, err := h.Text(key); err == nil {
		return v
	}
	return h.Get(key)
}

func partContentType(h mail.PartHeader) string {
	var ct string
	switch h := h.(type) {
	case *mail.InlineHeader:
		ct, _, _ = h.ContentType()
	case *mail.AttachmentHeader:
		ct, _, _ = h.ContentType()
	}
	return ct
}
