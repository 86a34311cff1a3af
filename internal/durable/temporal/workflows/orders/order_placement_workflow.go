package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	orderactivities "github.com/AhmetSulu/online-shopping-api/internal/platform/temporal/activities/orders"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order durably.
type OrderPlacementWorkflowInput struct {
	Command ordersports.CreateOrderInput
	TraceID string
}

// OrderPlacementWorkflow orchestrates the reservation-and-persist activity.
// Transient persistence failures are retried; business rejections are marked
// non-retryable by the activity and fail the workflow immediately.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "customerId", input.Command.CustomerID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{orderactivities.BusinessRejectionErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order ordersdomain.Order
	if err := workflow.ExecuteActivity(ctx, orderactivities.PlaceOrderActivityName, input.Command).Get(ctx, &order); err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "customerId", input.Command.CustomerID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return &order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
