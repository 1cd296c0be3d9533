package sender

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultBonus is added to the professional score for institutional senders
const DefaultBonus = 2

// DefaultSuffixes are the institutional markers looked for right after the '@'
var DefaultSuffixes = []string{"company", "corp", "org", "edu", "gov"}

// Heuristic awards a bonus to senders whose address looks institutional
type Heuristic struct {
	markers []string
	bonus   int
	logger  *zap.Logger
}

// NewHeuristic creates a sender domain heuristic. Each suffix is matched as the text
// immediately following an '@', so "org" matches "a@org.example" and "a@organic.com".
func NewHeuristic(suffixes []string, bonus int, logger *zap.Logger) *Heuristic {
	markers := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		markers = append(markers, "@"+suffix)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Initialized sender heuristic", zap.Strings("markers", markers), zap.Int("bonus", bonus))

	return &Heuristic{
		markers: markers,
		bonus:   bonus,
		logger:  logger,
	}
}

// NewDefaultHeuristic creates the heuristic with the built-in suffixes and bonus
func NewDefaultHeuristic() *Heuristic {
	return NewHeuristic(DefaultSuffixes, DefaultBonus, nil)
}

// DomainBonus returns the bonus when the sender contains an institutional marker,
// otherwise 0. Strings without an '@' never earn the bonus.
func (h *Heuristic) DomainBonus(from string) int {
	lower := strings.ToLower(from)
	if !strings.Contains(lower, "@") {
		return 0
	}
	for _, marker := range h.markers {
		if strings.Contains(lower, marker) {
			return h.bonus
		}
	}
	return 0
}

// ExtractAddress returns the address inside angle brackets, as in "Name <a@b.com>",
// or the trimmed input when there are none
func ExtractAddress(from string) string {
	start := strings.LastIndex(from, "<")
	end := strings.LastIndex(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}

// Domain returns the lower-cased part after the last '@', or "unknown"
func Domain(from string) string {
	addr := ExtractAddress(from)
	i := strings.LastIndex(addr, "@")
	if i < 0 || i == len(addr)-1 {
		return "unknown"
	}
	return strings.ToLower(addr[i+1:])
}
