package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

var _ ports.InventoryLedger = (*Ledger)(nil)

// stockRow is the ledger's narrow view of the catalog's products table. It
// maps the same columns the catalog adapter owns; the ledger only ever reads
// price and moves stock.
type stockRow struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Price         decimal.Decimal `gorm:"column:price"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Deleted       bool            `gorm:"column:deleted"`
}

func (stockRow) TableName() string { return "products" }

// Ledger reserves and restores product stock against PostgreSQL. It must run
// inside a TxManager scope: each product row is locked with SELECT ... FOR
// UPDATE so the availability check and the decrement are atomic, and a failed
// line rolls back every earlier decrement with the enclosing transaction.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Reserve locks each product row, verifies availability and decrements stock.
// The returned lines carry the unit price read under the lock.
func (l *Ledger) Reserve(ctx context.Context, lines []ports.LineRequest) ([]ports.ReservedLine, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	db := dbFromContext(ctx, l.db).WithContext(ctx)

	reserved := make([]ports.ReservedLine, 0, len(lines))
	for _, line := range lines {
		var row stockRow
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "id = ? AND deleted = false", line.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, err
		}
		if row.StockQuantity < line.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: row.StockQuantity,
			}
		}
		if err := db.Model(&stockRow{}).Where("id = ?", row.ID).
			Updates(map[string]any{
				"stock_quantity": gorm.Expr("stock_quantity - ?", line.Quantity),
				"modified_at":    gorm.Expr("NOW()"),
			}).Error; err != nil {
			return nil, err
		}
		reserved = append(reserved, ports.ReservedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: row.Price,
		})
	}
	return reserved, nil
}

// Restore credits stock back for previously reserved lines. Products removed
// from the catalog since the reservation are skipped.
func (l *Ledger) Restore(ctx context.Context, lines []ports.ReservedLine) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	db := dbFromContext(ctx, l.db).WithContext(ctx)

	for _, line := range lines {
		if err := db.Model(&stockRow{}).Where("id = ?", line.ProductID).
			Updates(map[string]any{
				"stock_quantity": gorm.Expr("stock_quantity + ?", line.Quantity),
				"modified_at":    gorm.Expr("NOW()"),
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres inventory ledger not configured")
	}
	return nil
}
