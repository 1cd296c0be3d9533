// Package drafting assembles replies and new messages in a recipient's tone.
//
// A Composer asks its ReplyDrafter for body text and wraps it with the tone's
// greeting and signoff. Without a drafter, or when the drafter fails or returns
// nothing, canned template bodies are used so a draft is always produced.
package drafting

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/tone"
)

// TemplateSource names the fallback drafter in Reply.Source
const TemplateSource = "template"

// FallbackObserver is told when a configured drafter could not be used
type FallbackObserver interface {
	ObserveDrafterFallback(provider string)
}

// Composer drafts replies and new messages
type Composer struct {
	drafter   core.ReplyDrafter
	logger    *zap.Logger
	fallbacks FallbackObserver
}

// NewComposer creates a composer. drafter and fallbacks may be nil.
func NewComposer(drafter core.ReplyDrafter, logger *zap.Logger, fallbacks FallbackObserver) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		drafter:   drafter,
		logger:    logger,
		fallbacks: fallbacks,
	}
}

// Reply drafts an answer to email following instructions
func (c *Composer) Reply(ctx context.Context, email *core.Email, instructions string, recipient core.RecipientType, formality float64) core.Reply {
	profile := tone.Resolve(recipient, formality)

	if c.drafter != nil {
		body, err := c.drafter.DraftReply(ctx, email, instructions, profile)
		if body = strings.TrimSpace(body); err == nil && body != "" {
			return Assemble(profile, body, c.drafter.Name())
		}
		c.fallback("reply", err)
	}

	return Assemble(profile, TemplateReplyBody(instructions), TemplateSource)
}

// Compose drafts a new message about topic
func (c *Composer) Compose(ctx context.Context, topic string, recipient core.RecipientType, formality float64) core.Reply {
	profile := tone.Resolve(recipient, formality)

	if c.drafter != nil {
		body, err := c.drafter.DraftNew(ctx, topic, profile)
		if body = strings.TrimSpace(body); err == nil && body != "" {
			return Assemble(profile, body, c.drafter.Name())
		}
		c.fallback("compose", err)
	}

	return Assemble(profile, TemplateNewBody(topic), TemplateSource)
}

func (c *Composer) fallback(kind string, err error) {
	fields := []zap.Field{
		zap.String("drafter", c.drafter.Name()),
		zap.String("kind", kind),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	} else {
		fields = append(fields, zap.String("reason", "empty response"))
	}
	c.logger.Warn("Drafter failed, using template", fields...)

	if c.fallbacks != nil {
		c.fallbacks.ObserveDrafterFallback(c.drafter.Name())
	}
}

// Assemble wraps body with the profile's greeting and signoff
func Assemble(profile core.ToneProfile, body, source string) core.Reply {
	return core.Reply{
		Greeting: profile.Greeting,
		Body:     body,
		Signoff:  profile.Signoff,
		FullText: profile.Greeting + ",\n\n" + body + "\n\n" + profile.Signoff,
		Tone:     profile.Style,
		Source:   source,
	}
}
