package factory

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/mail-triage/internal/adapters/google"
	"github.com/mikey/mail-triage/internal/config"
)

// GoogleFactory creates the Gmail and Calendar clients for the authorized user
type GoogleFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGoogleFactory creates a new Google factory
func NewGoogleFactory(cfg *config.Config, logger *zap.Logger) *GoogleFactory {
	return &GoogleFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAuthenticator loads the OAuth client credentials
func (f *GoogleFactory) CreateAuthenticator() (*google.Authenticator, error) {
	return google.NewAuthenticator(f.cfg.GetGoogle(), f.logger)
}

// CreateClients creates Gmail and Calendar clients sharing one authorized HTTP client
func (f *GoogleFactory) CreateClients(ctx context.Context) (*google.GmailClient, *google.CalendarClient, error) {
	auth, err := f.CreateAuthenticator()
	if err != nil {
		return nil, nil, err
	}
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	gc := f.cfg.GetGoogle()
	gmail, err := google.NewGmailClient(ctx, gc.Query, f.logger, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, nil, err
	}

	cc := f.cfg.GetCalendar()
	cal, err := google.NewCalendarClient(ctx, cc.CalendarID, cc.ReminderMinutes, f.logger, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, nil, err
	}

	return gmail, cal, nil
}
