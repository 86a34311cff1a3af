package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	usersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/users/application"
	usersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

const tracerName = "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
// Credentials never reach the log attributes.
type Service struct {
	inner   usersports.Service
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

// New wraps the core user service.
func New(inner usersports.Service, opts ...Option) usersports.Service {
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

func (s *Service) Register(ctx context.Context, input usersports.RegisterInput) (*usersdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register",
		trace.WithAttributes(attribute.String("user.username", input.Username)))
	defer span.End()

	user, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("user.username", input.Username))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.Int64("user.id", user.ID), slog.String("user.username", user.Username))
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	token, err := s.inner.Login(ctx, username, password)
	if err != nil {
		return "", s.handleError(ctx, span, err, "login rejected", slog.String("user.username", username))
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "user logged in", slog.String("user.username", username))
	return token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "failed to log out")
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.ChangePassword",
		trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()

	if err := s.inner.ChangePassword(ctx, username, currentPassword, newPassword); err != nil {
		return s.handleError(ctx, span, err, "failed to change password", slog.String("user.username", username))
	}
	s.logInfo(ctx, "password changed", slog.String("user.username", username))
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*usersdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	user, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "authentication rejected")
	}
	return user, nil
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
		if isRejection(err) {
			level = slog.LevelWarn
		}
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

func isRejection(err error) bool {
	return errors.Is(err, usersapp.ErrAuthentication) || errors.Is(err, usersapp.ErrInvalidInput)
}

type serviceMetrics struct {
	usersRegistered metric.Int64Counter
	logins          metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.users_registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{usersRegistered: registered, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

var _ usersports.Service = (*Service)(nil)
