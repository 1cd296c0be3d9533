package tone

import (
	"strings"

	"github.com/mikey/mail-triage/internal/core"
)

// Formality bands
const (
	CasualBelow = 0.33
	FormalAbove = 0.66
)

// Modifier phrases appended to the base style
const (
	CasualModifier   = "casual, relaxed, friendly, approachable, light-hearted, informal"
	FormalModifier   = "formal, professional, polished, respectful, structured, concise"
	BalancedModifier = "balanced tone (between casual and formal)"
)

// DefaultRecipient is used when a recipient type is not recognized
const DefaultRecipient = core.RecipientColleague

var baseProfiles = map[core.RecipientType]core.ToneProfile{
	core.RecipientFriend: {
		Style:    "casual, warm, relaxed, humorous if appropriate",
		Greeting: "Hey",
		Signoff:  "Cheers",
	},
	core.RecipientColleague: {
		Style:    "professional, respectful, concise",
		Greeting: "Hi",
		Signoff:  "Best regards",
	},
	core.RecipientRelative: {
		Style:    "personal, warm, caring, gentle",
		Greeting: "Hi",
		Signoff:  "Take care",
	},
	core.RecipientStudent: {
		Style:    "clear, encouraging, supportive",
		Greeting: "Hello",
		Signoff:  "Warm regards",
	},
	core.RecipientClient: {
		Style:    "polished, courteous, confident, solution-oriented",
		Greeting: "Hello",
		Signoff:  "Kind regards",
	},
	core.RecipientBoss: {
		Style:    "formal, respectful, clear, professional",
		Greeting: "Dear",
		Signoff:  "Respectfully",
	},
}

// menu maps the numbered choices offered by the interactive flows
var menu = map[string]core.RecipientType{
	"1": core.RecipientFriend,
	"2": core.RecipientColleague,
	"3": core.RecipientClient,
	"4": core.RecipientBoss,
	"5": core.RecipientRelative,
}

// Resolve returns the tone profile for a recipient type and formality. Unknown types use
// the colleague profile. Formality is not clamped: values below 0 blend as casual and
// values above 1 as formal, which callers should treat as undefined.
func Resolve(recipient core.RecipientType, formality float64) core.ToneProfile {
	base, ok := baseProfiles[recipient]
	if !ok {
		base = baseProfiles[DefaultRecipient]
	}
	return core.ToneProfile{
		Greeting: base.Greeting,
		Signoff:  base.Signoff,
		Style:    Blend(base.Style, formality),
	}
}

// Blend appends the formality modifier to a base style
func Blend(baseStyle string, formality float64) string {
	switch {
	case formality < CasualBelow:
		return baseStyle + ", " + CasualModifier
	case formality > FormalAbove:
		return baseStyle + ", " + FormalModifier
	default:
		return baseStyle + ", " + BalancedModifier
	}
}

// ParseRecipientType accepts a recipient name or a menu number ("1".."5").
// Anything else yields the colleague type.
func ParseRecipientType(s string) core.RecipientType {
	s = strings.ToLower(strings.TrimSpace(s))
	if rt, ok := menu[s]; ok {
		return rt
	}
	if _, ok := baseProfiles[core.RecipientType(s)]; ok {
		return core.RecipientType(s)
	}
	return DefaultRecipient
}

// MenuText lists the numbered recipient choices
func MenuText() string {
	return "1. friend  2. colleague  3. client  4. boss  5. relative"
}
