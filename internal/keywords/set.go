package keywords

// Set is an immutable, named group of patterns. Patterns are OR'd for matching and
// keep their declaration order for reproducible debugging output.
type Set struct {
	name     string
	patterns []Matcher
}

// New creates a keyword set
func New(name string, patterns ...Matcher) *Set {
	p := make([]Matcher, len(patterns))
	copy(p, patterns)
	return &Set{name: name, patterns: p}
}

// FromPhrases creates a keyword set from configuration strings, see Parse
func FromPhrases(name string, phrases []string) *Set {
	patterns := make([]Matcher, 0, len(phrases))
	for _, phrase := range phrases {
		patterns = append(patterns, Parse(phrase))
	}
	return &Set{name: name, patterns: patterns}
}

// Name returns the set name
func (s *Set) Name() string {
	return s.name
}

// Len returns the number of patterns
func (s *Set) Len() int {
	return len(s.patterns)
}

// Phrases returns the patterns in configuration form
func (s *Set) Phrases() []string {
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.String()
	}
	return out
}

// CountMatches returns how many distinct patterns occur in text.
// A pattern counts once no matter how often it repeats.
func (s *Set) CountMatches(text string) int {
	count := 0
	for _, p := range s.patterns {
		if Matches(p, text) {
			count++
		}
	}
	return count
}

// AnyMatch reports whether any pattern occurs in text, stopping at the first hit
func (s *Set) AnyMatch(text string) bool {
	for _, p := range s.patterns {
		if Matches(p, text) {
			return true
		}
	}
	return false
}

// MatchedPatterns returns the patterns found in text, in set order
func (s *Set) MatchedPatterns(text string) []string {
	var matched []string
	for _, p := range s.patterns {
		if Matches(p, text) {
			matched = append(matched, p.String())
		}
	}
	return matched
}
