package ports

import (
	"context"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
