package ports

import (
	"context"
	"errors"
)

// ErrSessionNotFound signals a missing or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore abstracts session token persistence. Tokens are opaque and
// resolve to the owning username until they expire or are deleted.
type SessionStore interface {
	Save(ctx context.Context, token, username string) error
	Resolve(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	DeleteByUsername(ctx context.Context, username string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, string, string) error { return nil }
func (noopSessionStore) Resolve(context.Context, string) (string, error) {
	return "", ErrSessionNotFound
}
func (noopSessionStore) Delete(context.Context, string) error           { return nil }
func (noopSessionStore) DeleteByUsername(context.Context, string) error { return nil }
