package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	orderworkflows "github.com/AhmetSulu/online-shopping-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the Temporal workflow that reserves stock and persists the order.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input ports.CreateOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("order-placement-%d-%s", input.CustomerID, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflow,
		orderworkflows.OrderPlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// A duplicate submit within the same trace attaches to the run the
		// first submit started instead of placing the order twice.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input ports.CreateOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
