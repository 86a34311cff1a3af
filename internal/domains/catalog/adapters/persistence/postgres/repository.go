package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

// productRecord maps the product aggregate to a relational table.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name;index:idx_products_name"`
	Description   string          `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(18,2)"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Category      string          `gorm:"column:category;type:varchar(32);index"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	ModifiedAt    time.Time       `gorm:"column:modified_at"`
	Deleted       bool            `gorm:"column:deleted;index"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":           record.Name,
				"description":    record.Description,
				"price":          record.Price,
				"stock_quantity": record.StockQuantity,
				"category":       record.Category,
				"image_urls":     record.ImageURLs,
				"modified_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a visible product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ? AND deleted = false", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByName fetches a visible product by name, case-insensitively.
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	err := r.db.WithContext(ctx).
		First(&record, "LOWER(name) = LOWER(?) AND deleted = false", strings.TrimSpace(name)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete soft-deletes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).
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

// List returns all visible products.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where("deleted = false").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      string(product.Category),
		ImageURLs:     pq.StringArray(product.ImageURLs),
		Deleted:       product.Audit.Deleted,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Category:      domain.Category(r.Category),
		ImageURLs:     []string(r.ImageURLs),
		Audit: audit.Envelope{
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
			Deleted:    r.Deleted,
		},
	}
}
