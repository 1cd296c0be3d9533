package core

import (
	"time"
)

// Category is the classifier's verdict for a message
type Category string

const (
	CategorySpam         Category = "SPAM"
	CategoryProfessional Category = "PROFESSIONAL"
	CategoryPersonal     Category = "PERSONAL"
)

// Categories lists every category in display order
var Categories = []Category{CategoryPersonal, CategoryProfessional, CategorySpam}

// RecipientType selects the base tone used when drafting to someone
type RecipientType string

const (
	RecipientFriend    RecipientType = "friend"
	RecipientColleague RecipientType = "colleague"
	RecipientRelative  RecipientType = "relative"
	RecipientStudent   RecipientType = "student"
	RecipientClient    RecipientType = "client"
	RecipientBoss      RecipientType = "boss"
)

// Email represents an email message with an already decoded plain text body
type Email struct {
	ID      string
	From    string
	To      []string
	Subject string
	Body    string
}

// ToneProfile steers reply drafting
type ToneProfile struct {
	Greeting string
	Signoff  string
	Style    string
}

// Reply is a drafted message ready for review
type Reply struct {
	Greeting string
	Body     string
	Signoff  string
	FullText string
	Tone     string
	// Source is the drafter that produced Body, "template" for the fallback
	Source string
}

// MeetingSlot is a proposed calendar slot
type MeetingSlot struct {
	Start    time.Time
	End      time.Time
	TimeZone string
}

// TriageResult represents the outcome of processing one message
type TriageResult struct {
	Email        *Email
	Category     Category
	HasMeeting   bool
	CalendarLink string
	ReplySent    bool
	Cached       bool
	ProcessedAt  time.Time
}

// VerdictEntry is a stored triage verdict keyed by message ID
type VerdictEntry struct {
	MessageID  string
	Category   Category
	HasMeeting bool
	LastSeen   time.Time
	ExpiresAt  time.Time
}

// Summary holds per-category counts for a processed batch
type Summary struct {
	Personal     int
	Professional int
	Spam         int
	Meetings     int
}

// Summarize counts categories and meetings over results
func Summarize(results []TriageResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Category {
		case CategoryPersonal:
			s.Personal++
		case CategoryProfessional:
			s.Professional++
		case CategorySpam:
			s.Spam++
		}
		if r.HasMeeting {
			s.Meetings++
		}
	}
	return s
}
