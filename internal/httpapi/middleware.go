package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	settingsports "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
	usersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
	apierrors "github.com/AhmetSulu/online-shopping-api/internal/shared/errors"
)

const authenticatedUserKey = "httpapi.authenticatedUser"

// Maintenance returns middleware that answers 503 while maintenance mode is
// on. Auth and settings routes stay open so operators can turn it off again.
func Maintenance(settings settingsports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if settings == nil || !settings.MaintenanceEnabled(c.Request.Context()) {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/auth/") || strings.HasPrefix(path, "/api/v1/settings") {
			c.Next()
			return
		}
		respondProblem(c, apierrors.ErrMaintenance.WithDetail("The shop is temporarily closed for maintenance"))
		c.Abort()
	}
}

// RequireAuth returns middleware that resolves the bearer token to a user and
// stores it on the context for handlers.
func RequireAuth(users usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			c.Abort()
			return
		}
		c.Set(authenticatedUserKey, user)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}

// authenticatedUser reads the user placed by RequireAuth, responding 401 when
// the middleware did not run.
func authenticatedUser(c *gin.Context) (*usersdomain.User, bool) {
	value, ok := c.Get(authenticatedUserKey)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
		return nil, false
	}
	user, ok := value.(*usersdomain.User)
	if !ok || user == nil {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
		return nil, false
	}
	return user, true
}
