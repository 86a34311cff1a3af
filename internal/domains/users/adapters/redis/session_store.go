package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	userports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

var _ userports.SessionStore = (*SessionStore)(nil)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user-sessions:"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore keeps session tokens in Redis with TTL-based expiry. A per-user
// set tracks open tokens so DeleteByUsername can revoke them all.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wires a Redis-backed session store. Caller owns client lifecycle.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, token, username string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	username = strings.TrimSpace(username)
	if token == "" || username == "" {
		return errors.New("username and token are required")
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+token, username, s.ttl)
	pipe.SAdd(ctx, userKeyPrefix+username, token)
	pipe.Expire(ctx, userKeyPrefix+username, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := s.ensureClient(); err != nil {
		return "", err
	}
	username, err := s.client.Get(ctx, sessionKeyPrefix+strings.TrimSpace(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", userports.ErrSessionNotFound
		}
		return "", err
	}
	return username, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	username, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	if username != "" {
		pipe.SRem(ctx, userKeyPrefix+username, token)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	tokens, err := s.client.SMembers(ctx, userKeyPrefix+username).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKeyPrefix+token)
	}
	pipe.Del(ctx, userKeyPrefix+username)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}
