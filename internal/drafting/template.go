package drafting

import "strings"

const (
	thankBody    = "Thank you for your email. I appreciate you reaching out. I'll review this and get back to you shortly."
	meetingBody  = "Thank you for the meeting invite. I'd be happy to join. Please let me know the time that works best for you."
	questionBody = "Thanks for your question. I'll look into this and provide you with detailed information soon."
	genericBody  = "Thank you for your email. I've received your message and will respond appropriately."
)

// TemplateReplyBody picks a canned reply body from keywords in the
// instructions. The first of "thank", "meeting" and "question" found wins.
func TemplateReplyBody(instructions string) string {
	lower := strings.ToLower(instructions)
	switch {
	case strings.Contains(lower, "thank"):
		return thankBody
	case strings.Contains(lower, "meeting"):
		return meetingBody
	case strings.Contains(lower, "question"):
		return questionBody
	default:
		return genericBody
	}
}

// TemplateNewBody is the canned body for a fresh message about topic
func TemplateNewBody(topic string) string {
	return "Regarding: " + topic + "\n\nI wanted to reach out to discuss this matter with you. Please let me know your thoughts."
}
