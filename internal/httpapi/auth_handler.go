package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/http/mapper"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

// AuthAPI wires HTTP transport with the users bounded context service.
type AuthAPI struct {
	service usersports.Service
}

// NewAuthAPI creates an AuthAPI backed by the provided service.
func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /api/v1/auth/register
// Create a new account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}

// Post /api/v1/auth/login
// Exchange credentials for a session token
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.TokenResponse{Token: token})
}

// Post /api/v1/auth/logout
// Invalidate the presented session token
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /api/v1/auth/change-password
// Change the authenticated user's password
func (api *AuthAPI) ChangePassword(c *gin.Context) {
	user, ok := authenticatedUser(c)
	if !ok {
		return
	}
	var payload userhttpmapper.ChangePasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	err := api.service.ChangePassword(c.Request.Context(), user.Username, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
