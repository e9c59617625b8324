package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miapp/portal/internal/core/ports"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionBackend stores each session record as a hash at session:<id>.
// Every write refreshes the TTL.
type SessionBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionBackend wraps client. A non-positive ttl uses 30 days.
func NewSessionBackend(client *redis.Client, ttl time.Duration) *SessionBackend {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionBackend{client: client, ttl: ttl}
}

func (b *SessionBackend) Bind(sessionID string) ports.SessionStore {
	return &sessionStore{backend: b, key: sessionKey(sessionID)}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

type sessionStore struct {
	backend *SessionBackend
	key     string
}

func (s *sessionStore) Get(ctx context.Context, field string) (string, error) {
	v, err := s.backend.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", field, err)
	}
	return v, nil
}

func (s *sessionStore) Set(ctx context.Context, field, value string) error {
	_, err := s.backend.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, field, value)
		p.Expire(ctx, s.key, s.backend.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set %s: %w", field, err)
	}
	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.backend.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
