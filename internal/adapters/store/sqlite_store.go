package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
)

// SQLiteStore is a SQLite implementation of the VerdictStore interface.
// Timestamps are stored as UTC RFC 3339 text so they compare lexically.
type SQLiteStore struct {
	db       *sql.DB
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSQLiteStore opens or creates the verdict database at dbPath
func NewSQLiteStore(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS triage_verdicts (
			message_id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			has_meeting BOOLEAN NOT NULL,
			last_seen TEXT NOT NULL,
			expires_at TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_verdicts_expires_at ON triage_verdicts(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go runCleanup(s, cleanupFreq, s.stopCh, logger)
	}

	return s, nil
}

// Get retrieves a live verdict for a message
func (s *SQLiteStore) Get(ctx context.Context, messageID string) (*core.VerdictEntry, error) {
	var entry core.VerdictEntry
	var category, lastSeen, expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT message_id, category, has_meeting, last_seen, expires_at
		FROM triage_verdicts
		WHERE message_id = ? AND expires_at > ?
	`, messageID, formatRFC3339(time.Now())).Scan(&entry.MessageID, &category, &entry.HasMeeting, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query verdict: %w", err)
	}
	entry.Category = core.Category(category)

	if entry.LastSeen, err = time.Parse(time.RFC3339Nano, lastSeen); err != nil {
		return nil, fmt.Errorf("failed to parse last_seen timestamp: %w", err)
	}
	if entry.ExpiresAt, err = time.Parse(time.RFC3339Nano, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}

	return &entry, nil
}

// Set stores a verdict
func (s *SQLiteStore) Set(ctx context.Context, entry *core.VerdictEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO triage_verdicts (message_id, category, has_meeting, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.MessageID, string(entry.Category), entry.HasMeeting, formatRFC3339(entry.LastSeen), formatRFC3339(entry.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert verdict: %w", err)
	}
	return nil
}

// Delete removes a verdict
func (s *SQLiteStore) Delete(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM triage_verdicts WHERE message_id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete verdict: %w", err)
	}
	return nil
}

// Cleanup removes expired verdicts
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM triage_verdicts WHERE expires_at <= ?
	`, formatRFC3339(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to clean up expired verdicts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired verdicts", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *SQLiteStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close SQLite database", zap.Error(err))
		}
	})
}

// formatRFC3339 uses a fixed-width fraction so stored values sort chronologically
func formatRFC3339(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
