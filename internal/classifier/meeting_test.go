package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/mail-triage/internal/keywords"
)

func TestHasMeetingIntent(t *testing.T) {
	d := NewMeetingDetector(nil)

	tests := []struct {
		name     string
		subject  string
		body     string
		expected bool
	}{
		{name: "schedule a call", subject: "Can we schedule a call tomorrow?", expected: true},
		{name: "birthday wishes", body: "Happy birthday, hope you have a great weekend!", expected: false},
		{name: "join with gap", body: "Please join the standup today", expected: true},
		{name: "join on another line", body: "Please join\ntomorrow works", expected: false},
		{name: "zoom link", subject: "Zoom link inside", expected: true},
		{name: "let's meet", body: "Let's meet at the cafe", expected: true},
		{name: "recall is not call", body: "I recall you said so", expected: false},
		{name: "empty", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.HasMeetingIntent(tt.subject, tt.body))
		})
	}
}

func TestMeetingDetectorCustomSet(t *testing.T) {
	d := NewMeetingDetector(keywords.FromPhrases("meeting", []string{"huddle"}))

	assert.True(t, d.HasMeetingIntent("Quick huddle", ""))
	assert.False(t, d.HasMeetingIntent("Can we schedule a call?", ""))
	assert.Equal(t, []string{"huddle"}, d.MatchedPatterns("", "huddle at 3"))
}
