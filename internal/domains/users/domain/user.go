package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// User represents a shop account. Password holds the bcrypt hash, never the
// plain text.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string
	Audit    audit.Envelope
}

// NewUser builds a user with a freshly hashed password.
func NewUser(username, email, password string) (*User, error) {
	user := &User{}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetEmail validates the email when present.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetPassword checks basic strength and stores the bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares the stored hash with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	if strings.TrimSpace(password) == "" || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Validate re-applies core invariants for persistence. The password must
// already be hashed at this point.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if u.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}
