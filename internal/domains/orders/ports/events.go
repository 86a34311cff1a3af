package ports

import (
	"context"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
)

// EventPublisher announces committed order mutations to interested consumers.
// Publishing is best-effort and must never fail the originating operation.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderUpdated(ctx context.Context, order *domain.Order)
	OrderDeleted(ctx context.Context, orderID int64)
}

// NoopPublisher is a safe default when no broker is configured.
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) OrderCreated(context.Context, *domain.Order) {}
func (noopPublisher) OrderUpdated(context.Context, *domain.Order) {}
func (noopPublisher) OrderDeleted(context.Context, int64)         {}
