package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

var (
	_ ports.Repository      = (*Store)(nil)
	_ ports.InventoryLedger = (*Store)(nil)
	_ ports.TxManager       = (*Store)(nil)
)

type txKey struct{}

// Store is the in-memory order persistence adapter. It owns the order map and
// borrows product stock from the catalog's memory repository. One mutex
// serializes transaction scopes, which both guarantees the reservation
// check-and-decrement cannot interleave across concurrent orders and makes
// rollback a snapshot restore.
type Store struct {
	mu       sync.Mutex
	products *catalogmemory.Repository
	orders   map[int64]*domain.Order
	nextID   int64
}

func NewStore(products *catalogmemory.Repository) *Store {
	return &Store{products: products, orders: map[int64]*domain.Order{}}
}

// WithinTransaction serializes the unit of work and restores the pre-scope
// snapshot of orders and product stock when fn fails. Scopes do not nest.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return errors.New("transaction scope already open")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	orderSnapshot := s.snapshotOrders()
	productSnapshot := s.products.Snapshot()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.orders = orderSnapshot
		s.products.RestoreSnapshot(productSnapshot)
		return err
	}
	return nil
}

// Reserve validates and decrements stock per line; price snapshots come from
// the product's current price. Must run inside WithinTransaction — partial
// decrements before a failing line are undone by the scope's rollback.
func (s *Store) Reserve(ctx context.Context, lines []ports.LineRequest) ([]ports.ReservedLine, error) {
	reserved := make([]ports.ReservedLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalogports.ErrNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, err
		}
		if product.StockQuantity < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}
		if err := s.products.AdjustStock(line.ProductID, -line.Quantity); err != nil {
			return nil, err
		}
		reserved = append(reserved, ports.ReservedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}
	return reserved, nil
}

// Restore credits stock back for previously reserved lines.
func (s *Store) Restore(_ context.Context, lines []ports.ReservedLine) error {
	for _, line := range lines {
		if err := s.products.AdjustStock(line.ProductID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	unlock := s.lockOutsideTx(ctx)
	defer unlock()

	clone := cloneOrder(order)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID == 0 {
		s.nextID++
		clone.ID = s.nextID
		for i := range clone.Lines {
			clone.Lines[i].OrderID = clone.ID
		}
	} else if clone.ID > s.nextID {
		s.nextID = clone.ID
	}
	clone.Audit.Touch(time.Now())
	s.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	unlock := s.lockOutsideTx(ctx)
	defer unlock()

	order, ok := s.orders[id]
	if !ok || !order.Audit.IsVisible() {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Order, error) {
	unlock := s.lockOutsideTx(ctx)
	defer unlock()

	list := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if order.Audit.IsVisible() {
			list = append(list, cloneOrder(order))
		}
	}
	return list, nil
}

func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	unlock := s.lockOutsideTx(ctx)
	defer unlock()

	order, ok := s.orders[id]
	if !ok || !order.Audit.IsVisible() {
		return ports.ErrNotFound
	}
	order.Audit.MarkDeleted(time.Now())
	return nil
}

func (s *Store) HardDeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	unlock := s.lockOutsideTx(ctx)
	defer unlock()

	var purged int64
	for id, order := range s.orders {
		if order.Audit.Deleted && order.Audit.ModifiedAt.Before(cutoff) {
			delete(s.orders, id)
			purged++
		}
	}
	return purged, nil
}

// lockOutsideTx acquires the store mutex unless the caller already holds it
// through an open transaction scope.
func (s *Store) lockOutsideTx(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) snapshotOrders() map[int64]*domain.Order {
	snapshot := make(map[int64]*domain.Order, len(s.orders))
	for id, order := range s.orders {
		snapshot[id] = cloneOrder(order)
	}
	return snapshot
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone
}
