package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter. Soft-deleted
// products stay in the map but are hidden from reads.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := cloneProduct(product)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	clone.Audit.Touch(time.Now())
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok || !product.Audit.IsVisible() {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) GetByName(_ context.Context, name string) (*domain.Product, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.Audit.IsVisible() && strings.ToLower(product.Name) == name {
			return cloneProduct(product), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok || !product.Audit.IsVisible() {
		return ports.ErrNotFound
	}
	product.Audit.MarkDeleted(time.Now())
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if product.Audit.IsVisible() {
			list = append(list, cloneProduct(product))
		}
	}
	return list, nil
}

// AdjustStock applies a stock delta, refusing to drive stock negative. The
// orders in-memory ledger uses it as its check-and-decrement primitive.
func (r *Repository) AdjustStock(id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok || !product.Audit.IsVisible() {
		return ports.ErrNotFound
	}
	next := product.StockQuantity + delta
	if next < 0 {
		return domain.ErrNegativeStock
	}
	product.StockQuantity = next
	product.Audit.Touch(time.Now())
	return nil
}

// Snapshot returns a deep copy of the product state for transactional rollback.
func (r *Repository) Snapshot() map[int64]*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[int64]*domain.Product, len(r.products))
	for id, product := range r.products {
		snapshot[id] = cloneProduct(product)
	}
	return snapshot
}

// RestoreSnapshot replaces the product state with a previously taken snapshot.
func (r *Repository) RestoreSnapshot(snapshot map[int64]*domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[int64]*domain.Product, len(snapshot))
	for id, product := range snapshot {
		r.products[id] = cloneProduct(product)
	}
}

func cloneProduct(product *domain.Product) *domain.Product {
	clone := *product
	clone.ImageURLs = append([]string(nil), product.ImageURLs...)
	return &clone
}
