package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mikey/mail-triage/internal/config"
	"github.com/mikey/mail-triage/internal/core"
)

// RedisStore keeps verdicts in Redis. Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	logger   *zap.Logger
	stopOnce sync.Once
}

type redisVerdict struct {
	Category   core.Category `json:"category"`
	HasMeeting bool          `json:"has_meeting"`
	LastSeen   time.Time     `json:"last_seen"`
	ExpiresAt  time.Time     `json:"expires_at"`
}

// NewRedisStore connects to Redis and checks the connection with PING
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	logger.Info("Connected to Redis verdict store",
		zap.String("address", cfg.Address),
		zap.Int("db", cfg.DB))

	return &RedisStore{
		client: client,
		prefix: cfg.KeyPrefix,
		logger: logger,
	}, nil
}

func (s *RedisStore) key(messageID string) string {
	return s.prefix + messageID
}

// Get retrieves a live verdict for a message
func (s *RedisStore) Get(ctx context.Context, messageID string) (*core.VerdictEntry, error) {
	raw, err := s.client.Get(ctx, s.key(messageID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}

	var v redisVerdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode verdict: %w", err)
	}
	return &core.VerdictEntry{
		MessageID:  messageID,
		Category:   v.Category,
		HasMeeting: v.HasMeeting,
		LastSeen:   v.LastSeen,
		ExpiresAt:  v.ExpiresAt,
	}, nil
}

// Set stores a verdict until its expiry. Already expired entries are not written.
func (s *RedisStore) Set(ctx context.Context, entry *core.VerdictEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(redisVerdict{
		Category:   entry.Category,
		HasMeeting: entry.HasMeeting,
		LastSeen:   entry.LastSeen,
		ExpiresAt:  entry.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}

	if err := s.client.Set(ctx, s.key(entry.MessageID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set verdict: %w", err)
	}
	return nil
}

// Delete removes a verdict
func (s *RedisStore) Delete(ctx context.Context, messageID string) error {
	if err := s.client.Del(ctx, s.key(messageID)).Err(); err != nil {
		return fmt.Errorf("failed to delete verdict: %w", err)
	}
	return nil
}

// Cleanup is a no-op, Redis evicts expired keys itself
func (s *RedisStore) Cleanup(_ context.Context) error {
	return nil
}

// Stop closes the Redis connection
func (s *RedisStore) Stop() {
	s.stopOnce.Do(func() {
		if err := s.client.Close(); err != nil {
			s.logger.Error("Failed to close Redis client", zap.Error(err))
		}
	})
}
