package drafting

import (
	"fmt"

	"github.com/mikey/mail-triage/internal/core"
)

const replyPromptFormat = `You are an AI email assistant. Generate a professional email reply.

Original Email:
Subject: %s
From: %s
Body: %s

Task: %s

Requirements:
- Tone: %s
- Keep it 3-5 sentences
- Be professional and natural
- Write ONLY the email body text (no greeting or signoff)

Generate the email body now:`

const newEmailPromptFormat = `You are an AI email assistant. Generate a professional email.

Context: %s

Requirements:
- Tone: %s
- Keep it clear and concise (3-5 sentences)
- Be professional and natural
- Write ONLY the email body text (no greeting or signoff)

Generate the email body now:`

// ReplyPrompt builds the model prompt for answering email. body is the
// already truncated message text.
func ReplyPrompt(email *core.Email, body, instructions string, profile core.ToneProfile) string {
	return fmt.Sprintf(replyPromptFormat, email.Subject, email.From, body, instructions, profile.Style)
}

// NewEmailPrompt builds the model prompt for a fresh message about topic
func NewEmailPrompt(topic string, profile core.ToneProfile) string {
	return fmt.Sprintf(newEmailPromptFormat, topic, profile.Style)
}
