package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

const tracerName = "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
// Business rejections (missing product, short stock) are logged at warn and
// counted separately from persistence failures.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(
			attribute.Int64("order.customer_id", input.CustomerID),
			attribute.Int("order.line_count", len(input.Lines)),
		))
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "create", err)
		return nil, s.handleError(ctx, span, err, "failed to place order",
			slog.Int64("order.customer_id", input.CustomerID))
	}
	s.metrics.recordPlaced(ctx, len(result.Lines))
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.ID),
		slog.Int64("order.customer_id", result.CustomerID),
		slog.String("order.total", result.TotalAmount.String()))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input ordersports.UpdateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID)))
	defer span.End()

	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "update", err)
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", input.OrderID))
	}
	s.logInfo(ctx, "order updated", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalAmount.String()))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) GetAllOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetAllOrders")
	defer span.End()

	result, err := s.inner.GetAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		level := slog.LevelError
		if ordersapp.IsBusinessFailure(err) {
			level = slog.LevelWarn
		}
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	linesReserved  metric.Int64Counter
	ordersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	lines, _ := m.Int64Counter("orders.service.lines_reserved", metric.WithDescription("Number of order lines reserved"))
	rejected, _ := m.Int64Counter("orders.service.orders_rejected", metric.WithDescription("Number of order requests rejected by stock or catalog checks"))
	return serviceMetrics{ordersPlaced: placed, linesReserved: lines, ordersRejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, lineCount int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.linesReserved != nil {
		m.linesReserved.Add(ctx, int64(lineCount))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, op string, err error) {
	if m.ordersRejected == nil || !ordersapp.IsBusinessFailure(err) {
		return
	}
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("order.operation", op)))
}

var _ ordersports.Service = (*Service)(nil)
