package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested (product, quantity) position.
type LineRequest struct {
	ProductID int64
	Quantity  int
}

// ReservedLine is a successfully reserved position with its price snapshot
// taken from the product at reservation time.
type ReservedLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// InventoryLedger validates and applies stock movements for order lines.
// Both operations must run inside a TxManager scope: per product the stock
// check and decrement are a single atomic step, and the batch is
// all-or-nothing — the enclosing transaction's rollback undoes every
// decrement applied before a failing line.
type InventoryLedger interface {
	// Reserve decrements stock for every requested line, failing with
	// *domain.ProductNotFoundError or *domain.InsufficientStockError on the
	// first line that cannot be satisfied.
	Reserve(ctx context.Context, lines []LineRequest) ([]ReservedLine, error)
	// Restore increments stock back for previously reserved lines.
	Restore(ctx context.Context, lines []ReservedLine) error
}
