package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a VerdictStore when no live verdict exists
var ErrNotFound = errors.New("verdict not found")

// Classifier assigns a category to a message
type Classifier interface {
	Classify(subject, body, sender string) Category
}

// MeetingDetector decides whether a message proposes a meeting
type MeetingDetector interface {
	HasMeetingIntent(subject, body string) bool
}

// MailSource fetches messages from a mailbox
type MailSource interface {
	// ListUnread returns the IDs of up to max unread messages
	ListUnread(ctx context.Context, max int64) ([]string, error)

	// Fetch retrieves and decodes a single message
	Fetch(ctx context.Context, id string) (*Email, error)
}

// MailSender delivers a plain text message
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// CalendarScheduler books meetings
type CalendarScheduler interface {
	// AddMeeting inserts an event and returns a link to it
	AddMeeting(ctx context.Context, subject, sender string, slot MeetingSlot) (string, error)
}

// ReplyDrafter generates the body text of a message in the given tone
type ReplyDrafter interface {
	// DraftReply drafts an answer to email following the user's instructions
	DraftReply(ctx context.Context, email *Email, instructions string, profile ToneProfile) (string, error)

	// DraftNew drafts a fresh message about topic
	DraftNew(ctx context.Context, topic string, profile ToneProfile) (string, error)

	// Name identifies the drafter in replies and logs
	Name() string
}

// VerdictStore records triage verdicts so messages are not processed twice
type VerdictStore interface {
	// Get retrieves a stored verdict for a message
	Get(ctx context.Context, messageID string) (*VerdictEntry, error)

	// Set stores a verdict
	Set(ctx context.Context, entry *VerdictEntry) error

	// Delete removes a verdict
	Delete(ctx context.Context, messageID string) error

	// Cleanup removes expired verdicts
	Cleanup(ctx context.Context) error
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(prompt string) bool
}

// MetricsRecorder observes triage outcomes
type MetricsRecorder interface {
	ObserveTriage(category Category, hasMeeting bool, cached bool)
}
