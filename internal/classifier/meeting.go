package classifier

import (
	"github.com/mikey/mail-triage/internal/keywords"
)

// MeetingDetector flags messages that propose or discuss a real-time meeting
type MeetingDetector struct {
	patterns *keywords.Set
}

// NewMeetingDetector creates a detector over patterns, or the built-in meeting set when nil
func NewMeetingDetector(patterns *keywords.Set) *MeetingDetector {
	if patterns == nil {
		patterns = keywords.Meeting
	}
	return &MeetingDetector{patterns: patterns}
}

// HasMeetingIntent reports whether any meeting pattern occurs in the message
func (d *MeetingDetector) HasMeetingIntent(subject, body string) bool {
	return d.patterns.AnyMatch(Blob(subject, body))
}

// MatchedPatterns returns the meeting patterns found in the message
func (d *MeetingDetector) MatchedPatterns(subject, body string) []string {
	return d.patterns.MatchedPatterns(Blob(subject, body))
}
