// Package workflow runs the interactive inbox and compose flows.
package workflow

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/calendar"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/drafting"
	"github.com/mikey/mail-triage/internal/sender"
	"github.com/mikey/mail-triage/internal/tone"
	"github.com/mikey/mail-triage/internal/utils"
)

// DefaultFormality is used when the operator's answer is not a number
const DefaultFormality = 0.5

const (
	previewLength = 100
	rule          = "======================================================================"
	thinRule      = "----------------------------------------------------------------------"
)

// Processor drives the inbox and compose flows
type Processor struct {
	source     core.MailSource
	mailer     core.MailSender
	scheduler  core.CalendarScheduler
	triage     *core.TriageService
	composer   *drafting.Composer
	prompter   Prompter
	out        io.Writer
	calendar   config.CalendarConfig
	maxResults int64
	logger     *zap.Logger
	now        func() time.Time
}

// Deps groups the collaborators of a Processor
type Deps struct {
	Source    core.MailSource
	Mailer    core.MailSender
	Scheduler core.CalendarScheduler
	Triage    *core.TriageService
	Composer  *drafting.Composer
	Prompter  Prompter
	Out       io.Writer
	Calendar  config.CalendarConfig
	// MaxResults caps how many unread messages one run handles
	MaxResults int64
	Logger     *zap.Logger
}

// NewProcessor creates a processor
func NewProcessor(d Deps) *Processor {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		source:     d.Source,
		mailer:     d.Mailer,
		scheduler:  d.Scheduler,
		triage:     d.Triage,
		composer:   d.Composer,
		prompter:   d.Prompter,
		out:        d.Out,
		calendar:   d.Calendar,
		maxResults: d.MaxResults,
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessInbox triages unread mail, then offers to book meetings and send replies.
// Messages that cannot be fetched are skipped. The returned results keep inbox order.
func (p *Processor) ProcessInbox(ctx context.Context) ([]core.TriageResult, core.Summary, error) {
	ids, err := p.source.ListUnread(ctx, p.maxResults)
	if err != nil {
		return nil, core.Summary{}, fmt.Errorf("failed to list unread messages: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(p.out, "No unread emails found.")
		return nil, core.Summary{}, nil
	}
	fmt.Fprintf(p.out, "Found %d unread email(s)\n", len(ids))

	emails := make([]*core.Email, 0, len(ids))
	for _, id := range ids {
		email, err := p.source.Fetch(ctx, id)
		if err != nil {
			p.logger.Warn("Skipping message that could not be fetched",
				zap.String("message_id", id),
				zap.Error(err))
			continue
		}
		emails = append(emails, email)
	}

	results, err := p.triage.TriageBatch(ctx, emails)
	if err != nil {
		return results, core.Summary{}, err
	}

	for i := range results {
		if err := ctx.Err(); err != nil {
			return results, core.Summarize(results), err
		}
		fmt.Fprintf(p.out, "\n%s\nProcessing Email %d/%d\n%s\n", rule, i+1, len(results), rule)
		p.handle(ctx, &results[i])
	}

	summary := core.Summarize(results)
	p.printSummary(results, summary)
	return results, summary, nil
}

func (p *Processor) handle(ctx context.Context, r *core.TriageResult) {
	email := r.Email
	fmt.Fprintf(p.out, "\nFrom: %s\nSubject: %s\nBody Preview: %s\n", email.From, email.Subject, utils.Preview(email.Body, previewLength))
	fmt.Fprintf(p.out, "\nClassification: %s\n", r.Category)

	if r.HasMeeting {
		p.offerMeeting(ctx, r)
	}

	if r.Category != core.CategorySpam {
		p.offerReply(ctx, r)
	}
}

func (p *Processor) offerMeeting(ctx context.Context, r *core.TriageResult) {
	fmt.Fprintln(p.out, "\nMeeting detected!")

	slot, err := calendar.PlaceholderSlot(p.now(), p.calendar)
	if err != nil {
		p.logger.Error("Failed to compute meeting slot", zap.Error(err))
		return
	}
	fmt.Fprintf(p.out, "   Suggested time: %s\n", slot.Start.Format("2006-01-02 15:04"))

	if p.scheduler == nil {
		fmt.Fprintln(p.out, "   No calendar configured")
		return
	}
	if !p.prompter.Confirm("   Add to calendar?") {
		return
	}

	link, err := p.scheduler.AddMeeting(ctx, r.Email.Subject, r.Email.From, slot)
	if err != nil {
		p.logger.Error("Failed to add meeting", zap.String("message_id", r.Email.ID), zap.Error(err))
		fmt.Fprintln(p.out, "   Could not add the meeting to the calendar")
		return
	}
	r.CalendarLink = link
	fmt.Fprintln(p.out, "   Meeting added to calendar")
}

func (p *Processor) offerReply(ctx context.Context, r *core.TriageResult) {
	if !p.prompter.Confirm("\n   Generate AI reply?") {
		return
	}

	recipient, formality := p.askTone("   ")
	instructions := p.prompter.Ask("   What should the reply say?")

	reply := p.composer.Reply(ctx, r.Email, instructions, recipient, formality)
	fmt.Fprintf(p.out, "\n   %s\n   GENERATED REPLY:\n   %s\n\n%s\n\n   %s\n", thinRule, thinRule, reply.FullText, thinRule)

	if !p.prompter.Confirm("\n   Send this reply?") {
		return
	}

	to := sender.ExtractAddress(r.Email.From)
	if err := p.mailer.Send(ctx, to, "Re: "+r.Email.Subject, reply.FullText); err != nil {
		p.logger.Error("Failed to send reply", zap.String("to", to), zap.Error(err))
		fmt.Fprintln(p.out, "   Reply could not be sent")
		return
	}
	r.ReplySent = true
	fmt.Fprintln(p.out, "   Reply sent!")
}

// askTone reads the recipient type and formality. Unknown choices fall back to
// the colleague type and a non-numeric formality to DefaultFormality.
func (p *Processor) askTone(indent string) (core.RecipientType, float64) {
	fmt.Fprintf(p.out, "\n%sRecipient types:\n%s%s\n", indent, indent, tone.MenuText())
	recipient := tone.ParseRecipientType(p.prompter.Ask(indent + "Select (1-5)"))

	answer := p.prompter.Ask(indent + "Formality (0.0=casual, 1.0=formal)")
	formality, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		p.logger.Debug("Invalid formality, using default", zap.String("answer", answer))
		formality = DefaultFormality
	}
	return recipient, formality
}

func (p *Processor) printSummary(results []core.TriageResult, s core.Summary) {
	fmt.Fprintf(p.out, "\n%s\nPROCESSING COMPLETE - SUMMARY\n%s\n", rule, rule)
	for i, r := range results {
		fmt.Fprintf(p.out, "\n%d. %s\n   Category: %s\n", i+1, utils.Preview(r.Email.Subject, 50), r.Category)
		if r.HasMeeting {
			status := "Not added"
			if r.CalendarLink != "" {
				status = "Added"
			}
			fmt.Fprintf(p.out, "   Meeting: %s\n", status)
		}
	}
	fmt.Fprintf(p.out, "\n%s\nPersonal: %d | Professional: %d | Spam: %d\nMeetings detected: %d\n%s\n",
		thinRule, s.Personal, s.Professional, s.Spam, s.Meetings, rule)
}
