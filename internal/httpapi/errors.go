package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/application"
	catalogports "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	usersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/users/application"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
	apierrors "github.com/AhmetSulu/online-shopping-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError preserves plain status call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondOrderServiceError maps order service failures onto HTTP statuses.
// Persistence failures keep the generic detail; the cause stays in the logs.
func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ordersdomain.ErrProductNotFound), errors.Is(err, ordersports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, ordersdomain.ErrInsufficientStock):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, ordersports.ErrInvalidOrderID), errors.Is(err, ordersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrPersistence):
		respondProblem(c, apierrors.ErrInternal.WithDetail(ordersapp.ErrPersistence.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}

// respondCatalogServiceError maps catalog service failures onto HTTP statuses.
func respondCatalogServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, catalogports.ErrDuplicateName):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, catalogapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}

// respondUserServiceError maps user service failures onto HTTP statuses.
func respondUserServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usersapp.ErrAuthentication):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case errors.Is(err, usersports.ErrDuplicateUsername):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, usersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, usersports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal)
	}
}
