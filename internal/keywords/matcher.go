package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher finds a pattern in lower-cased text
type Matcher interface {
	// Locate returns the byte span of the first match starting at or after from
	Locate(text string, from int) (start, end int, ok bool)

	// String renders the pattern the way it is written in configuration
	String() string
}

// Matches reports whether m occurs anywhere in text
func Matches(m Matcher, text string) bool {
	_, _, ok := m.Locate(text, 0)
	return ok
}

// word matches a literal word or phrase with word-boundary semantics at both ends
type word struct {
	phrase string
}

// Word creates a case-insensitive whole-word matcher for a literal word or phrase.
// A boundary exists where a word character meets a non-word character, so "free" never
// matches inside "freedom" and "noreply@" only matches when a word character follows.
func Word(phrase string) Matcher {
	return &word{phrase: strings.ToLower(phrase)}
}

func (w *word) Locate(text string, from int) (int, int, bool) {
	if w.phrase == "" {
		return 0, 0, false
	}
	for from <= len(text) {
		i := strings.Index(text[from:], w.phrase)
		if i < 0 {
			return 0, 0, false
		}
		start := from + i
		end := start + len(w.phrase)
		if boundaryAt(text, start) && boundaryAt(text, end) {
			return start, end, true
		}
		from = start + 1
	}
	return 0, 0, false
}

func (w *word) String() string {
	return w.phrase
}

// anyOf matches the earliest of several alternatives
type anyOf struct {
	alternatives []Matcher
}

// AnyOf matches whichever alternative occurs first
func AnyOf(alternatives ...Matcher) Matcher {
	return &anyOf{alternatives: alternatives}
}

func (a *anyOf) Locate(text string, from int) (int, int, bool) {
	bestStart, bestEnd, found := 0, 0, false
	for _, alt := range a.alternatives {
		start, end, ok := alt.Locate(text, from)
		if ok && (!found || start < bestStart) {
			bestStart, bestEnd, found = start, end, true
		}
	}
	return bestStart, bestEnd, found
}

func (a *anyOf) String() string {
	parts := make([]string, len(a.alternatives))
	for i, alt := range a.alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, "|")
}

// sequence matches its steps in order with an arbitrary gap that stays on one line
type sequence struct {
	steps []Matcher
}

// Sequence matches first followed eventually by each of rest, in order.
// The gap between steps may hold any text except a line break.
func Sequence(first Matcher, rest ...Matcher) Matcher {
	return &sequence{steps: append([]Matcher{first}, rest...)}
}

func (s *sequence) Locate(text string, from int) (int, int, bool) {
	for from <= len(text) {
		start, end, ok := s.steps[0].Locate(text, from)
		if !ok {
			return 0, 0, false
		}

		lineEnd := len(text)
		if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
			lineEnd = end + i
		}

		line := text[:lineEnd]
		cur := end
		matched := true
		for _, step := range s.steps[1:] {
			_, e, ok := step.Locate(line, cur)
			if !ok {
				matched = false
				break
			}
			cur = e
		}
		if matched {
			return start, cur, true
		}

		// The earliest occurrence on this line failed, so later ones on it will too
		from = lineEnd + 1
	}
	return 0, 0, false
}

func (s *sequence) String() string {
	parts := make([]string, len(s.steps))
	for i, step := range s.steps {
		parts[i] = step.String()
	}
	return strings.Join(parts, " ... ")
}

// Parse builds a matcher from its configuration form.
// "a ... b|c" is a sequence of "a" then either "b" or "c"; anything else is a literal phrase.
func Parse(pattern string) Matcher {
	steps := strings.Split(pattern, "...")
	matchers := make([]Matcher, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		matchers = append(matchers, parseAlternatives(step))
	}

	switch len(matchers) {
	case 0:
		return Word(strings.TrimSpace(pattern))
	case 1:
		return matchers[0]
	default:
		return Sequence(matchers[0], matchers[1:]...)
	}
}

func parseAlternatives(step string) Matcher {
	if !strings.Contains(step, "|") {
		return Word(step)
	}
	var alts []Matcher
	for _, alt := range strings.Split(step, "|") {
		if alt = strings.TrimSpace(alt); alt != "" {
			alts = append(alts, Word(alt))
		}
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return AnyOf(alts...)
}

// boundaryAt reports whether a word boundary lies at byte offset i
func boundaryAt(text string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}
	return before != after
}

// isWordRune reports letters, numbers and '_'. Combining marks are not word
// runes, so "i\u0307teams" has a boundary before "teams".
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
