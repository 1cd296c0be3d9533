package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/core"
)

const mysqlTimeLayout = "2006-01-02 15:04:05"

// MySQLStore is a MySQL implementation of the VerdictStore interface
type MySQLStore struct {
	db       *sql.DB
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMySQLStore connects to MySQL and ensures the verdict table exists
func NewMySQLStore(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS triage_verdicts (
			message_id VARCHAR(255) PRIMARY KEY,
			category VARCHAR(32) NOT NULL,
			has_meeting BOOLEAN NOT NULL,
			last_seen DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			INDEX idx_verdicts_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	s := &MySQLStore{
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
func (s *MySQLStore) Get(ctx context.Context, messageID string) (*core.VerdictEntry, error) {
	var entry core.VerdictEntry
	var category, lastSeen, expiresAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT message_id, category, has_meeting, last_seen, expires_at
		FROM triage_verdicts
		WHERE message_id = ? AND expires_at > ?
	`, messageID, time.Now().UTC().Format(mysqlTimeLayout)).Scan(&entry.MessageID, &category, &entry.HasMeeting, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query verdict: %w", err)
	}
	entry.Category = core.Category(category)

	if entry.LastSeen, err = time.Parse(mysqlTimeLayout, lastSeen); err != nil {
		return nil, fmt.Errorf("failed to parse last_seen timestamp: %w", err)
	}
	if entry.ExpiresAt, err = time.Parse(mysqlTimeLayout, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}

	return &entry, nil
}

// Set stores a verdict
func (s *MySQLStore) Set(ctx context.Context, entry *core.VerdictEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO triage_verdicts (message_id, category, has_meeting, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			category = VALUES(category),
			has_meeting = VALUES(has_meeting),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)
	`, entry.MessageID, string(entry.Category), entry.HasMeeting,
		entry.LastSeen.UTC().Format(mysqlTimeLayout), entry.ExpiresAt.UTC().Format(mysqlTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to insert verdict: %w", err)
	}
	return nil
}

// Delete removes a verdict
func (s *MySQLStore) Delete(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM triage_verdicts WHERE message_id = ?`, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete verdict: %w", err)
	}
	return nil
}

// Cleanup removes expired verdicts
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM triage_verdicts WHERE expires_at <= ?
	`, time.Now().UTC().Format(mysqlTimeLayout))
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
func (s *MySQLStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close MySQL database", zap.Error(err))
		}
	})
}
