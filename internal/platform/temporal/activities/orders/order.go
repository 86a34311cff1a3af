package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName reserves stock and persists an order aggregate.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// BusinessRejectionErrorType marks activity failures that must not be retried:
// a missing product or short stock will not heal on its own.
const BusinessRejectionErrorType = "OrderBusinessRejection"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the reservation-and-persist unit of work and returns the
// stored order.
func (a *Activities) PlaceOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", input.CustomerID, "lineCount", len(input.Lines))
	order, err := a.service.CreateOrder(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "customerId", input.CustomerID, "error", err)
		if ordersapp.IsBusinessFailure(err) || errors.Is(err, ordersapp.ErrInvalidInput) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), BusinessRejectionErrorType, err)
		}
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}
