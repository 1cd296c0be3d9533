package classifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/keywords"
	"github.com/mikey/mail-triage/internal/sender"
)

func TestClassify(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name     string
		subject  string
		body     string
		from     string
		expected core.Category
	}{
		{
			name:     "empty input defaults to professional",
			expected: core.CategoryProfessional,
		},
		{
			name:     "single spam term is not spam",
			body:     "here's a discount",
			from:     "shop@gmail.com",
			expected: core.CategoryProfessional,
		},
		{
			name:     "two distinct spam terms",
			subject:  "free offer, claim now",
			expected: core.CategorySpam,
		},
		{
			name:     "repeated spam term counts once",
			body:     "free free free",
			expected: core.CategoryProfessional,
		},
		{
			name:     "spam wins over personal terms",
			subject:  "Win a free birthday party",
			from:     "friend@gmail.com",
			expected: core.CategorySpam,
		},
		{
			name:     "spam wins over institutional sender",
			body:     "Congratulations, you won the lottery",
			from:     "promo@company.com",
			expected: core.CategorySpam,
		},
		{
			name:     "institutional sender with no keywords",
			from:     "a@company.com",
			expected: core.CategoryProfessional,
		},
		{
			name:     "consumer sender with no keywords",
			from:     "a@gmail.com",
			expected: core.CategoryProfessional,
		},
		{
			name:     "personal only",
			body:     "let's grab lunch this weekend",
			from:     "pal@gmail.com",
			expected: core.CategoryPersonal,
		},
		{
			name:     "domain bonus ties personal terms",
			body:     "let's grab lunch this weekend",
			from:     "pal@company.com",
			expected: core.CategoryProfessional,
		},
		{
			name:     "tie resolves to professional",
			subject:  "Team lunch",
			from:     "pal@gmail.com",
			expected: core.CategoryProfessional,
		},
		{
			name:     "personal outweighs professional",
			subject:  "Birthday party with family",
			body:     "Bring your team!",
			expected: core.CategoryPersonal,
		},
		{
			name:     "professional outweighs personal",
			subject:  "Project deadline",
			body:     "The report is due before the weekend",
			expected: core.CategoryProfessional,
		},
		{
			name:     "upper case is folded",
			subject:  "FREE PRIZE INSIDE",
			expected: core.CategorySpam,
		},
		{
			name:     "non ascii text",
			subject:  "Grüße von der Familie",
			body:     "Ünsere Party: how are you?",
			expected: core.CategoryPersonal,
		},
		{
			name:     "substring does not count",
			body:     "freedom, winter and offers",
			expected: core.CategoryProfessional,
		},
		{
			name:     "sender address is not scored as text",
			body:     "quick question",
			from:     "noreply@mailers.example",
			expected: core.CategoryProfessional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.subject, tt.body, tt.from))
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewDefault()
	first := c.Classify("Team lunch", "see you at the office", "a@corp.example")
	second := c.Classify("Team lunch", "see you at the office", "a@corp.example")
	assert.Equal(t, first, second)
}

func TestClassifyConcurrentUse(t *testing.T) {
	c := NewDefault()

	var wg sync.WaitGroup
	results := make([]core.Category, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Classify("free offer", "claim now", "")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, core.CategorySpam, r)
	}
}

func TestExplain(t *testing.T) {
	c := NewDefault()

	v := c.Explain("Project update", "dinner after work?", "boss@company.com")
	assert.Equal(t, core.CategoryProfessional, v.Category)
	assert.Equal(t, 0, v.SpamCount)
	assert.Equal(t, 2, v.DomainBonus)
	assert.Equal(t, 4, v.ProfessionalCount)
	assert.Equal(t, 1, v.PersonalCount)
	assert.Equal(t, []string{"project", "work"}, v.MatchedProfessional)
	assert.Equal(t, []string{"dinner"}, v.MatchedPersonal)

	spam := c.Explain("Click here", "limited time offer", "")
	assert.Equal(t, core.CategorySpam, spam.Category)
	assert.Equal(t, []string{"click here", "offer", "limited time"}, spam.MatchedSpam)
	assert.Zero(t, spam.ProfessionalCount)
}

func TestInjectedKeywordSets(t *testing.T) {
	c := New(Options{
		Spam:          keywords.FromPhrases("spam", []string{"buy now"}),
		Professional:  keywords.FromPhrases("professional", []string{"invoice"}),
		Personal:      keywords.FromPhrases("personal", []string{"grandma"}),
		Domain:        sender.NewHeuristic([]string{"acme"}, 1, nil),
		SpamThreshold: 1,
	})

	assert.Equal(t, core.CategorySpam, c.Classify("Buy now", "", ""))
	assert.Equal(t, core.CategoryPersonal, c.Classify("", "grandma says hi", "a@gmail.com"))
	assert.Equal(t, core.CategoryProfessional, c.Classify("", "grandma says hi", "a@acme.io"))
	assert.Equal(t, core.CategoryProfessional, c.Classify("free offer claim now", "", ""))
}

func TestBlob(t *testing.T) {
	assert.Equal(t, "hello world", Blob("Hello", "WORLD"))
	assert.Equal(t, " ", Blob("", ""))
	assert.Equal(t, "straße ärger", Blob("STRAẞE", "Ärger"))
}
