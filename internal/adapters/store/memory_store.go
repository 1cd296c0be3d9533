package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
)

// MemoryStore is an in-memory implementation of the VerdictStore interface
type MemoryStore struct {
	entries     map[string]core.VerdictEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewMemoryStore creates a new in-memory store. A positive cleanupFreq starts a
// background task that drops expired verdicts.
func NewMemoryStore(logger *zap.Logger, cleanupFreq time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries:     make(map[string]core.VerdictEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}

	if cleanupFreq > 0 {
		go runCleanup(s, cleanupFreq, s.stopCh, logger)
	}

	return s
}

// Get retrieves a live verdict for a message
func (s *MemoryStore) Get(ctx context.Context, messageID string) (*core.VerdictEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[messageID]
	if !ok || !s.now().Before(entry.ExpiresAt) {
		return nil, core.ErrNotFound
	}
	return &entry, nil
}

// Set stores a verdict
func (s *MemoryStore) Set(ctx context.Context, entry *core.VerdictEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.MessageID] = *entry
	return nil
}

// Delete removes a verdict
func (s *MemoryStore) Delete(ctx context.Context, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, messageID)
	return nil
}

// Cleanup removes expired verdicts
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiredCount := 0
	for id, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, id)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired verdicts", zap.Int("expired_count", expiredCount))
	return nil
}

// Len returns the number of stored verdicts, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
