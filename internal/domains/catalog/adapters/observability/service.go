package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	catalogports "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) AddProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddProduct",
		trace.WithAttributes(attribute.String("product.name", product.Name)))
	defer span.End()

	result, err := s.inner.AddProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product", slog.String("product.name", product.Name))
	}
	s.metrics.recordAdded(ctx, result.Category)
	s.logInfo(ctx, "product added", slog.Int64("product.id", result.ID), slog.String("product.name", result.Name))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct",
		trace.WithAttributes(attribute.Int64("product.id", product.ID)))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", product.ID))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateStock",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int("stock.quantity", quantity)))
	defer span.End()

	result, err := s.inner.UpdateStock(ctx, id, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update stock", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "stock updated", slog.Int64("product.id", id), slog.Int("stock.quantity", quantity))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) GetAllProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetAllProducts")
	defer span.End()

	result, err := s.inner.GetAllProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
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
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	productsAdded metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsAdded, _ := m.Int64Counter("catalog.service.products_added", metric.WithDescription("Number of products added"))
	return serviceMetrics{productsAdded: productsAdded}
}

func (m serviceMetrics) recordAdded(ctx context.Context, category catalogdomain.Category) {
	if m.productsAdded != nil {
		m.productsAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", string(category))))
	}
}

var _ catalogports.Service = (*Service)(nil)
