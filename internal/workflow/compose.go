package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
)

// ComposeResult reports what happened to a drafted message
type ComposeResult struct {
	Draft   core.Reply
	Sent    bool
	To      string
	Subject string
	// Body is what was sent, the draft or the operator's edit
	Body string
}

// Compose drafts a new message and lets the operator send, edit, regenerate or cancel it
func (p *Processor) Compose(ctx context.Context) (ComposeResult, error) {
	for {
		recipient, formality := p.askTone("")
		topic := p.prompter.Ask("What should the email be about?")

		draft := p.composer.Compose(ctx, topic, recipient, formality)
		fmt.Fprintf(p.out, "\n%s\nGENERATED EMAIL:\n%s\n\n%s\n\n%s\n", thinRule, thinRule, draft.FullText, thinRule)
		fmt.Fprintln(p.out, "\nOptions:\n1. Send email\n2. Edit and send\n3. Regenerate\n4. Cancel")

		result := ComposeResult{Draft: draft}
		switch p.prompter.Ask("\nYour choice (1-4)") {
		case "1":
			result.Body = draft.FullText
		case "2":
			result.Body = p.prompter.Ask("\nEnter your edited version")
		case "3":
			continue
		default:
			fmt.Fprintln(p.out, "\nEmail cancelled.")
			return result, nil
		}

		result.To = p.prompter.Ask("Recipient email")
		result.Subject = p.prompter.Ask("Email subject")
		if err := p.mailer.Send(ctx, result.To, result.Subject, result.Body); err != nil {
			return result, fmt.Errorf("failed to send email: %w", err)
		}
		result.Sent = true

		p.logger.Info("Composed email sent", zap.String("to", result.To), zap.String("source", draft.Source))
		fmt.Fprintln(p.out, "\nEmail sent!")
		return result, nil
	}
}
