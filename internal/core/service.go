package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TriageOptions tunes a TriageService
type TriageOptions struct {
	// StoreEnabled turns on verdict lookups and recording
	StoreEnabled bool
	// StoreTTL is how long a recorded verdict stays valid
	StoreTTL time.Duration
	// Workers bounds the concurrency of TriageBatch
	Workers int
	// Metrics receives one observation per triaged message, may be nil
	Metrics MetricsRecorder
}

// TriageService classifies messages and detects meeting intent
type TriageService struct {
	classifier Classifier
	detector   MeetingDetector
	store      VerdictStore
	logger     *zap.Logger
	opts       TriageOptions
	now        func() time.Time
}

// NewTriageService creates a new triage service. store may be nil when opts.StoreEnabled is false.
func NewTriageService(
	classifier Classifier,
	detector MeetingDetector,
	store VerdictStore,
	logger *zap.Logger,
	opts TriageOptions,
) *TriageService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if store == nil {
		opts.StoreEnabled = false
	}
	return &TriageService{
		classifier: classifier,
		detector:   detector,
		store:      store,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Triage classifies one message. It always returns a category: store failures are
// logged and the message is classified afresh.
func (s *TriageService) Triage(ctx context.Context, email *Email) TriageResult {
	if s.opts.StoreEnabled && email.ID != "" {
		entry, err := s.store.Get(ctx, email.ID)
		switch {
		case err == nil:
			s.logger.Debug("Verdict store hit", zap.String("message_id", email.ID))
			s.observe(entry.Category, entry.HasMeeting, true)
			return TriageResult{
				Email:       email,
				Category:    entry.Category,
				HasMeeting:  entry.HasMeeting,
				Cached:      true,
				ProcessedAt: s.now(),
			}
		case !errors.Is(err, ErrNotFound):
			s.logger.Warn("Failed to read verdict store", zap.Error(err), zap.String("message_id", email.ID))
		}
	}

	category := s.classifier.Classify(email.Subject, email.Body, email.From)
	hasMeeting := s.detector.HasMeetingIntent(email.Subject, email.Body)
	now := s.now()

	s.logger.Debug("Triaged message",
		zap.String("message_id", email.ID),
		zap.String("sender", email.From),
		zap.String("category", string(category)),
		zap.Bool("has_meeting", hasMeeting))

	if s.opts.StoreEnabled && email.ID != "" {
		entry := &VerdictEntry{
			MessageID:  email.ID,
			Category:   category,
			HasMeeting: hasMeeting,
			LastSeen:   now,
			ExpiresAt:  now.Add(s.opts.StoreTTL),
		}
		if err := s.store.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to record verdict", zap.Error(err), zap.String("message_id", email.ID))
		}
	}

	s.observe(category, hasMeeting, false)
	return TriageResult{
		Email:       email,
		Category:    category,
		HasMeeting:  hasMeeting,
		ProcessedAt: now,
	}
}

// TriageBatch triages messages concurrently and returns results in input order.
// If ctx is cancelled, dispatch stops and the results processed so far are
// returned, still in input order, together with ctx.Err().
func (s *TriageService) TriageBatch(ctx context.Context, emails []*Email) ([]TriageResult, error) {
	results := make([]TriageResult, len(emails))
	done := make([]bool, len(emails))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i := range emails {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.Triage(ctx, emails[i])
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		partial := make([]TriageResult, 0, len(emails))
		for i, ok := range done {
			if ok {
				partial = append(partial, results[i])
			}
		}
		s.logger.Warn("Batch triage interrupted",
			zap.Error(err),
			zap.Int("processed", len(partial)),
			zap.Int("total", len(emails)))
		return partial, err
	}

	return results, nil
}

func (s *TriageService) observe(category Category, hasMeeting, cached bool) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveTriage(category, hasMeeting, cached)
	}
}
