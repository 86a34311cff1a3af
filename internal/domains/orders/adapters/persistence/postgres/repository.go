package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
// When the context carries an open transaction the repository joins it.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderLineRecord{})
	}
	return repo
}

type orderRecord struct {
	ID          int64             `gorm:"primaryKey;column:id"`
	CustomerID  int64             `gorm:"column:customer_id;index"`
	OrderDate   time.Time         `gorm:"column:order_date"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(18,2)"`
	Lines       []orderLineRecord `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	ModifiedAt  time.Time         `gorm:"column:modified_at"`
	Deleted     bool              `gorm:"column:deleted;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index:idx_order_lines_order_id"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2)"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Save inserts or updates an order together with its lines. On update the
// existing lines are replaced wholesale so the stored set always mirrors the
// aggregate.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	record := toRecord(order)
	lines := record.Lines
	record.Lines = nil

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"customer_id":  record.CustomerID,
			"order_date":   record.OrderDate,
			"total_amount": record.TotalAmount,
			"modified_at":  gorm.Expr("NOW()"),
		}),
	}).Create(&record).Error; err != nil {
		return nil, err
	}
	if err := db.Where("order_id = ?", record.ID).Delete(&orderLineRecord{}).Error; err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].OrderID = record.ID
	}
	if len(lines) > 0 {
		if err := db.Create(&lines).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a visible order with its lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var record orderRecord
	if err := db.Preload("Lines").First(&record, "id = ? AND deleted = false", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all visible orders with their lines.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var records []orderRecord
	if err := db.Preload("Lines").Where("deleted = false").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// SoftDelete flags an order as deleted without touching its rows.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	result := db.Model(&orderRecord{}).
		Where("id = ? AND deleted = false", id).
		Updates(map[string]any{"deleted": true, "modified_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// HardDeleteBefore removes soft-deleted orders whose last modification is
// older than cutoff, lines first. Returns the number of orders purged.
func (r *Repository) HardDeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var ids []int64
	if err := db.Model(&orderRecord{}).
		Where("deleted = true AND modified_at < ?", cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := db.Where("order_id IN ?", ids).Delete(&orderLineRecord{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id IN ?", ids).Delete(&orderRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := make([]orderLineRecord, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, orderLineRecord{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return orderRecord{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		Lines:       lines,
		Deleted:     order.Audit.Deleted,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := make([]domain.OrderLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, domain.OrderLine{
			OrderID:   line.OrderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return &domain.Order{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		OrderDate:   r.OrderDate,
		TotalAmount: r.TotalAmount,
		Lines:       lines,
		Audit: audit.Envelope{
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
			Deleted:    r.Deleted,
		},
	}
}
