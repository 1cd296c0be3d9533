package ports

import (
	"context"

	"github.com/mikey/mail-triage/internal/core"
)

// EmailFilter defines the interface for mail entry points that triage messages
type EmailFilter interface {
	// ProcessEmail triages a message and returns the verdict
	ProcessEmail(ctx context.Context, email *core.Email) core.TriageResult

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
