package application

import (
	"context"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

// Service orchestrates the order use cases: stock reservation, total
// computation, and the commit/rollback protocol tying order persistence to
// inventory changes. Reservation and persistence always share one TxManager
// scope, so a failure anywhere in the unit rolls back every stock mutation.
type Service struct {
	orders          ports.Repository
	ledger          ports.InventoryLedger
	tx              ports.TxManager
	events          ports.EventPublisher
	restoreOnDelete bool
	now             func() time.Time
}

type Option func(*Service)

// WithEventPublisher announces committed mutations to a broker.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithRestoreOnDelete credits an order's stock back when the order is
// deleted. Off by default: a delivered order's stock is gone for good, so
// restoration is an explicit business decision.
func WithRestoreOnDelete(restore bool) Option {
	return func(s *Service) {
		s.restoreOnDelete = restore
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(orders ports.Repository, ledger ports.InventoryLedger, tx ports.TxManager, opts ...Option) *Service {
	s := &Service{
		orders: orders,
		ledger: ledger,
		tx:     tx,
		events: ports.NoopPublisher,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder reserves stock for every requested line, builds the aggregate
// with price snapshots and the derived total, and persists order and stock
// movements as one atomic unit.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if err := validateLines(input.Lines); err != nil {
		return nil, mapError(err)
	}
	var created *domain.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reserved, err := s.ledger.Reserve(ctx, input.Lines)
		if err != nil {
			return err
		}
		order, err := domain.NewOrder(input.CustomerID, s.now(), linesFromReserved(reserved))
		if err != nil {
			return err
		}
		created, err = s.orders.Save(ctx, order)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.events.OrderCreated(ctx, created)
	return created, nil
}

// UpdateOrder replaces an order's lines wholesale: stock held by the current
// lines is credited back, the new lines are reserved at current prices, and
// the rewritten aggregate is persisted. Any failure rolls back restores and
// reservations alike, leaving the pre-update state intact.
func (s *Service) UpdateOrder(ctx context.Context, input ports.UpdateOrderInput) (*domain.Order, error) {
	if input.OrderID <= 0 {
		return nil, ports.ErrInvalidOrderID
	}
	if err := validateLines(input.Lines); err != nil {
		return nil, mapError(err)
	}
	var updated *domain.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if err := s.ledger.Restore(ctx, reservedFromLines(order.Lines)); err != nil {
			return err
		}
		reserved, err := s.ledger.Reserve(ctx, input.Lines)
		if err != nil {
			return err
		}
		order.OrderDate = input.OrderDate
		if err := order.ReplaceLines(linesFromReserved(reserved)); err != nil {
			return err
		}
		updated, err = s.orders.Save(ctx, order)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.events.OrderUpdated(ctx, updated)
	return updated, nil
}

// GetOrder loads a single visible order.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ports.ErrInvalidOrderID
	}
	return s.orders.GetByID(ctx, id)
}

// GetAllOrders lists all visible orders.
func (s *Service) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// DeleteOrder soft-deletes an order, optionally crediting its stock back.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if id <= 0 {
		return ports.ErrInvalidOrderID
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s.restoreOnDelete {
			if err := s.ledger.Restore(ctx, reservedFromLines(order.Lines)); err != nil {
				return err
			}
		}
		return s.orders.SoftDelete(ctx, id)
	})
	if err != nil {
		return mapError(err)
	}
	s.events.OrderDeleted(ctx, id)
	return nil
}

func validateLines(lines []ports.LineRequest) error {
	if len(lines) == 0 {
		return domain.ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	}
	return nil
}

func linesFromReserved(reserved []ports.ReservedLine) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(reserved))
	for _, r := range reserved {
		lines = append(lines, domain.OrderLine{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
		})
	}
	return lines
}

func reservedFromLines(lines []domain.OrderLine) []ports.ReservedLine {
	reserved := make([]ports.ReservedLine, 0, len(lines))
	for _, line := range lines {
		reserved = append(reserved, ports.ReservedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return reserved
}

var _ ports.Service = (*Service)(nil)
