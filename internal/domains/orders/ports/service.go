package ports

import (
	"context"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
)

// CreateOrderInput carries the request for a new order.
type CreateOrderInput struct {
	CustomerID int64
	Lines      []LineRequest
}

// UpdateOrderInput replaces an order's date and full line collection.
type UpdateOrderInput struct {
	OrderID   int64
	OrderDate time.Time
	Lines     []LineRequest
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}
