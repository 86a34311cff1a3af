package ports

import (
	"context"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator exposes durable workflow operations required by the orders bounded context.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
