package filter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/classifier"
	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

// CliFilter triages single messages and prints the verdict
type CliFilter struct {
	service    *core.TriageService
	classifier *classifier.Classifier
	detector   *classifier.MeetingDetector
	out        io.Writer
	logger     *zap.Logger
	verbose    bool
}

// NewCliFilter creates a new CLI filter. In verbose mode the matched keywords
// are printed using cls and detector.
func NewCliFilter(
	service *core.TriageService,
	cls *classifier.Classifier,
	detector *classifier.MeetingDetector,
	out io.Writer,
	logger *zap.Logger,
	verbose bool,
) *CliFilter {
	return &CliFilter{
		service:    service,
		classifier: cls,
		detector:   detector,
		out:        out,
		logger:     logger,
		verbose:    verbose,
	}
}

// ProcessEmail triages email and displays the result
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) core.TriageResult {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "From: %s\n", email.From)
	fmt.Fprintf(f.out, "To: %s\n", strings.Join(email.To, ", "))
	fmt.Fprintf(f.out, "Subject: %s\n", email.Subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(email.Body))
	if f.verbose {
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", utils.Preview(email.Body, 500))
	}

	startTime := time.Now()
	result := f.service.Triage(ctx, email)
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Category: %s\n", result.Category)
	fmt.Fprintf(f.out, "Meeting intent: %t\n", result.HasMeeting)
	if result.Cached {
		fmt.Fprintf(f.out, "Verdict from store: true\n")
	}

	if f.verbose && f.classifier != nil {
		v := f.classifier.Explain(email.Subject, email.Body, email.From)
		fmt.Fprintf(f.out, "Spam matches (%d): %s\n", v.SpamCount, strings.Join(v.MatchedSpam, ", "))
		fmt.Fprintf(f.out, "Professional matches (%d, domain bonus %d): %s\n",
			v.ProfessionalCount, v.DomainBonus, strings.Join(v.MatchedProfessional, ", "))
		fmt.Fprintf(f.out, "Personal matches (%d): %s\n", v.PersonalCount, strings.Join(v.MatchedPersonal, ", "))
	}
	if f.verbose && f.detector != nil {
		fmt.Fprintf(f.out, "Meeting matches: %s\n", strings.Join(f.detector.MatchedPatterns(email.Subject, email.Body), ", "))
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
