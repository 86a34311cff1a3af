package ports

import (
	"context"
	"errors"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrInvalidOrderID = errors.New("order id must be greater than zero")
)

// Repository persists order aggregates with their lines. Reads exclude
// soft-deleted orders. Implementations must honor an enclosing TxManager
// scope carried in the context.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	SoftDelete(ctx context.Context, id int64) error
	// HardDeleteBefore physically removes soft-deleted orders whose last
	// modification is older than cutoff and returns the number purged.
	HardDeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
