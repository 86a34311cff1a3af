package ports

import (
	"context"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
)

// RegisterInput carries the request for a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
