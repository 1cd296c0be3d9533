// Package google adapts the Gmail and Calendar APIs to the triage ports.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/mikey/mail-triage/internal/config"
)

// ErrNoToken is returned when no OAuth token has been saved yet
var ErrNoToken = errors.New("no Google OAuth token found, run the auth command first")

// Scopes grants mailbox read, send and label changes plus calendar writes
var Scopes = []string{
	gmail.GmailModifyScope,
	calendar.CalendarScope,
}

// Authenticator loads OAuth client credentials and the saved user token
type Authenticator struct {
	oauth     *oauth2.Config
	tokenFile string
	logger    *zap.Logger
}

// NewAuthenticator reads the installed-app credentials JSON named in cfg
func NewAuthenticator(cfg config.GoogleConfig, logger *zap.Logger) (*Authenticator, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	oc, err := googleoauth.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return &Authenticator{
		oauth:     oc,
		tokenFile: cfg.TokenFile,
		logger:    logger,
	}, nil
}

// AuthURL returns the consent page URL for first-time setup
func (a *Authenticator) AuthURL() string {
	return a.oauth.AuthCodeURL("mail-triage", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and saves it
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return a.saveToken(tok)
}

// HTTPClient returns a client that authorizes requests with the saved token.
// Refreshed tokens are written back to the token file.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := a.loadToken()
	if err != nil {
		return nil, err
	}

	ts := &savingTokenSource{
		base:   a.oauth.TokenSource(ctx, tok),
		last:   tok.AccessToken,
		save:   a.saveToken,
		logger: a.logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	if dir := filepath.Dir(a.tokenFile); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(a.tokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

type savingTokenSource struct {
	base   oauth2.TokenSource
	last   string
	save   func(*oauth2.Token) error
	logger *zap.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.save(tok); err != nil {
			s.logger.Warn("Failed to persist refreshed token", zap.Error(err))
		}
	}
	return tok, nil
}
