package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
}

func NewService(repo ports.Repository, sessions ports.SessionStore) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions}
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	if existing, err := s.repo.GetByUsername(ctx, user.Username); err == nil && existing != nil {
		return nil, ports.ErrDuplicateUsername
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login verifies credentials and issues an opaque session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidCredentials)
		}
		return "", err
	}
	if !user.CheckPassword(password) {
		return "", mapError(ports.ErrInvalidCredentials)
	}
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.Username); err != nil {
		return "", err
	}
	return token, nil
}

// Logout invalidates the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return err
	}
	return nil
}

// ChangePassword verifies the current password, stores the new hash and
// invalidates every open session of the user.
func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return mapError(ports.ErrInvalidCredentials)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return mapError(err)
	}
	if _, err := s.repo.Save(ctx, user); err != nil {
		return err
	}
	return s.sessions.DeleteByUsername(ctx, user.Username)
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, mapError(ports.ErrSessionNotFound)
	}
	username, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrSessionNotFound)
		}
		return nil, err
	}
	return user, nil
}

var _ ports.Service = (*Service)(nil)
