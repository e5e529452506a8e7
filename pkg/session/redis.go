package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed session store for multi-instance
// deployments. Expiration is delegated to Redis TTLs, so Cleanup is a
// no-op.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis session store from a connection URL.
// The connection is verified with a ping before the store is returned.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		_ = s.client.Del(ctx, sessionKey(sessionID)).Err()
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis expires sessions via the key TTL.
func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)

// =============================================================================
// Redis state store
// =============================================================================

// RedisStateStore keeps login state tokens in Redis so any instance can
// validate a token generated by another.
type RedisStateStore struct {
	client *redis.Client
}

// NewRedisStateStore creates a state store sharing an existing session
// store's connection.
func NewRedisStateStore(store *RedisStore) *RedisStateStore {
	return &RedisStateStore{client: store.client}
}

func stateKey(state string) string {
	return "state:" + state
}

func (s *RedisStateStore) Generate(ctx context.Context, ttl time.Duration) (string, error) {
	state, err := GenerateState()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, stateKey(state), "1", ttl).Err(); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return state, nil
}

func (s *RedisStateStore) Validate(ctx context.Context, state string) (bool, error) {
	// GetDel makes validation single-use atomically.
	err := s.client.GetDel(ctx, stateKey(state)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("validate state: %w", err)
	}
	return true, nil
}

// Cleanup is a no-op: Redis expires state tokens via the key TTL.
func (s *RedisStateStore) Cleanup(ctx context.Context) error { return nil }

var _ StateStore = (*RedisStateStore)(nil)
