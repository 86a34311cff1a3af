package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the settings row in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&settingRecord{})
	}
	return repo
}

type settingRecord struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	MaintenanceMode bool      `gorm:"column:maintenance_mode"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	ModifiedAt      time.Time `gorm:"column:modified_at"`
}

func (settingRecord) TableName() string { return "settings" }

// Get loads the settings row, seeding a default one on first access.
func (r *Repository) Get(ctx context.Context) (*domain.Setting, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record settingRecord
	err := r.db.WithContext(ctx).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = settingRecord{ID: 1}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts the settings row.
func (r *Repository) Save(ctx context.Context, setting *domain.Setting) (*domain.Setting, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, errors.New("setting is nil")
	}
	record := settingRecord{ID: setting.ID, MaintenanceMode: setting.MaintenanceMode}
	if record.ID == 0 {
		record.ID = 1
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"maintenance_mode": record.MaintenanceMode,
				"modified_at":      gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres settings repository not configured")
	}
	return nil
}

func (r settingRecord) toDomain() *domain.Setting {
	return &domain.Setting{
		ID:              r.ID,
		MaintenanceMode: r.MaintenanceMode,
		Audit: audit.Envelope{
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
		},
	}
}
