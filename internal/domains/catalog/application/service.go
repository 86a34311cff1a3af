package application

import (
	"context"
	"errors"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddProduct persists a new product, rejecting duplicate names.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.repo.GetByName(ctx, product.Name)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ports.ErrDuplicateName
	}
	return s.repo.Save(ctx, product)
}

// UpdateProduct overrides an existing product with new state.
func (s *Service) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Audit = existing.Audit
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

// UpdateStock sets the absolute stock quantity of a product.
func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.SetStock(quantity); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
