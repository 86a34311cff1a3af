package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore is an in-memory SessionStore implementation with TTL expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
}

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{sessions: map[string]session{}, ttl: ttl}
}

func (s *SessionStore) Save(_ context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{username: username, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *SessionStore) Resolve(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", ports.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", ports.ErrSessionNotFound
	}
	return entry.username, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) DeleteByUsername(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.sessions {
		if entry.username == username {
			delete(s.sessions, token)
		}
	}
	return nil
}
