package mapper

import (
	usersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

// RegisterRequest is the payload accepted by POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the payload accepted by POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the payload accepted by POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UserView is the read shape returned by the auth endpoints. The password
// hash never leaves the service.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// TokenResponse carries the opaque session token issued on login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ToRegisterInput converts a transport payload into the service input.
func ToRegisterInput(payload RegisterRequest) usersports.RegisterInput {
	return usersports.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}
}

// FromDomainUser converts a domain user to the transport representation.
func FromDomainUser(user *usersdomain.User) UserView {
	if user == nil {
		return UserView{}
	}
	return UserView{ID: user.ID, Username: user.Username, Email: user.Email}
}
