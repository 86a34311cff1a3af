package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/memory"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

func newUserService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewRepository(), memory.NewSessionStore(0))
}

func register(t *testing.T, svc *Service) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "ahmet",
		Email:    "ahmet@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)
	user := register(t, svc)

	require.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")
	require.True(t, user.CheckPassword("s3cret-pass"))

	token, err := svc.Login(context.Background(), "ahmet", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "ahmet", resolved.Username)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newUserService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "Ahmet",
		Email:    "other@example.com",
		Password: "another-pass",
	})
	require.ErrorIs(t, err, ports.ErrDuplicateUsername)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "", Email: "a@example.com", Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyUsername)

	_, err = svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "not-an-email", Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "short",
	})
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newUserService(t)
	register(t, svc)

	_, err := svc.Login(context.Background(), "ahmet", "wrong-pass")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "nobody", "s3cret-pass")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc := newUserService(t)
	register(t, svc)

	token, err := svc.Login(context.Background(), "ahmet", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ErrAuthentication)

	// repeated and unknown logouts are fine
	require.NoError(t, svc.Logout(context.Background(), token))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestChangePassword_RotatesHashAndDropsSessions(t *testing.T) {
	svc := newUserService(t)
	register(t, svc)

	first, err := svc.Login(context.Background(), "ahmet", "s3cret-pass")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "ahmet", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(context.Background(), "ahmet", "s3cret-pass", "n3w-password"))

	for _, token := range []string{first, second} {
		_, err = svc.Authenticate(context.Background(), token)
		require.ErrorIs(t, err, ErrAuthentication)
	}

	_, err = svc.Login(context.Background(), "ahmet", "s3cret-pass")
	require.ErrorIs(t, err, ErrAuthentication)

	token, err := svc.Login(context.Background(), "ahmet", "n3w-password")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestChangePassword_Rejections(t *testing.T) {
	svc := newUserService(t)
	register(t, svc)

	err := svc.ChangePassword(context.Background(), "ahmet", "wrong-pass", "n3w-password")
	require.ErrorIs(t, err, ErrAuthentication)

	err = svc.ChangePassword(context.Background(), "ahmet", "s3cret-pass", "short")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)

	err = svc.ChangePassword(context.Background(), "nobody", "s3cret-pass", "n3w-password")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Authenticate(context.Background(), "bogus")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, ErrAuthentication)
}
