package ports

import (
	"context"
	"errors"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already in use")
)

// Repository persists product aggregates. Reads exclude soft-deleted rows.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
}
