package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/mail-triage/internal/config"
)

// These tests need live servers and are skipped unless the address is exported.

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MAIL_TRIAGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MAIL_TRIAGE_TEST_REDIS_ADDR not set")
	}

	s, err := NewRedisStore(context.Background(), config.RedisConfig{
		Address:   addr,
		KeyPrefix: "mail-triage-test:" + uuid.NewString() + ":",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Stop()

	exerciseStore(t, s)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("MAIL_TRIAGE_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("MAIL_TRIAGE_TEST_MYSQL_DSN not set")
	}

	s, err := NewMySQLStore(dsn, zaptest.NewLogger(t), 0)
	require.NoError(t, err)
	defer s.Stop()

	exerciseStore(t, s)
}
