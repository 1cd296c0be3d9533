package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/adapters/store"
	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
)

// StoreFactory creates verdict stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// Stopper is implemented by stores that run background cleanup
type Stopper interface {
	Stop()
}

// CreateVerdictStore creates the configured store, or nil when the store is disabled
func (f *StoreFactory) CreateVerdictStore() (core.VerdictStore, error) {
	sc, err := f.cfg.GetStore()
	if err != nil {
		return nil, err
	}
	if !sc.Enabled {
		f.logger.Info("Verdict store disabled")
		return nil, nil
	}

	switch sc.Type {
	case "memory":
		return store.NewMemoryStore(f.logger, sc.CleanupFrequency), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(sc.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		s, err := store.NewSQLiteStore(sc.SQLitePath, f.logger, sc.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mysql":
		s, err := store.NewMySQLStore(sc.MySQLDSN, f.logger, sc.CleanupFrequency)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := store.NewRedisStore(context.Background(), sc.Redis, f.logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// TriageOptions returns the service options implied by the store and triage settings
func (f *StoreFactory) TriageOptions(metrics core.MetricsRecorder) (core.TriageOptions, error) {
	sc, err := f.cfg.GetStore()
	if err != nil {
		return core.TriageOptions{}, err
	}
	return core.TriageOptions{
		StoreEnabled: sc.Enabled,
		StoreTTL:     sc.TTL,
		Workers:      f.cfg.GetInt("triage.workers"),
		Metrics:      metrics,
	}, nil
}
