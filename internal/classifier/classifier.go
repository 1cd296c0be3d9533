// Package classifier implements the rule-based email classifier and meeting detector.
//
// Classification applies fixed precedence rules over keyword match counts:
//
//  1. two or more distinct spam patterns make a message SPAM
//  2. professional and personal patterns are counted
//  3. institutional senders add a bonus to the professional count
//  4. professional wins when strictly greater, personal wins when present,
//     and anything else is PROFESSIONAL
//
// The final fallback means ambiguous or empty mail is treated as work mail.
package classifier

import (
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/keywords"
	"github.com/mikey/mail-triage/internal/sender"
)

// DefaultSpamThreshold is the number of distinct spam patterns that makes a message SPAM
const DefaultSpamThreshold = 2

// DomainScorer scores a sender address
type DomainScorer interface {
	DomainBonus(from string) int
}

// Options configures a Classifier. Zero values select the built-in defaults.
type Options struct {
	Spam          *keywords.Set
	Professional  *keywords.Set
	Personal      *keywords.Set
	Domain        DomainScorer
	SpamThreshold int
}

// Verdict explains a classification
type Verdict struct {
	Category            core.Category
	SpamCount           int
	ProfessionalCount   int
	PersonalCount       int
	DomainBonus         int
	MatchedSpam         []string
	MatchedProfessional []string
	MatchedPersonal     []string
}

// Classifier is stateless and safe for concurrent use
type Classifier struct {
	spam          *keywords.Set
	professional  *keywords.Set
	personal      *keywords.Set
	domain        DomainScorer
	spamThreshold int
}

// New creates a classifier
func New(opts Options) *Classifier {
	c := &Classifier{
		spam:          opts.Spam,
		professional:  opts.Professional,
		personal:      opts.Personal,
		domain:        opts.Domain,
		spamThreshold: opts.SpamThreshold,
	}
	if c.spam == nil {
		c.spam = keywords.Spam
	}
	if c.professional == nil {
		c.professional = keywords.Professional
	}
	if c.personal == nil {
		c.personal = keywords.Personal
	}
	if c.domain == nil {
		c.domain = sender.NewDefaultHeuristic()
	}
	if c.spamThreshold <= 0 {
		c.spamThreshold = DefaultSpamThreshold
	}
	return c
}

// NewDefault creates a classifier with the built-in keyword sets and sender heuristic
func NewDefault() *Classifier {
	return New(Options{})
}

// Classify assigns exactly one category to a message
func (c *Classifier) Classify(subject, body, from string) core.Category {
	return c.classify(Blob(subject, body), from, false).Category
}

// Explain classifies a message and reports the counts and patterns behind the decision
func (c *Classifier) Explain(subject, body, from string) Verdict {
	return c.classify(Blob(subject, body), from, true)
}

func (c *Classifier) classify(text, from string, explain bool) Verdict {
	var v Verdict

	v.SpamCount = c.spam.CountMatches(text)
	if explain {
		v.MatchedSpam = c.spam.MatchedPatterns(text)
	}
	if v.SpamCount >= c.spamThreshold {
		v.Category = core.CategorySpam
		return v
	}

	v.ProfessionalCount = c.professional.CountMatches(text)
	v.PersonalCount = c.personal.CountMatches(text)
	if explain {
		v.MatchedProfessional = c.professional.MatchedPatterns(text)
		v.MatchedPersonal = c.personal.MatchedPatterns(text)
	}

	v.DomainBonus = c.domain.DomainBonus(from)
	v.ProfessionalCount += v.DomainBonus

	switch {
	case v.ProfessionalCount > v.PersonalCount:
		v.Category = core.CategoryProfessional
	case v.PersonalCount > 0:
		v.Category = core.CategoryPersonal
	default:
		v.Category = core.CategoryProfessional
	}
	return v
}
