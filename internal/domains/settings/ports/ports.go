package ports

import (
	"context"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/domain"
)

// Repository persists the settings row.
type Repository interface {
	Get(ctx context.Context) (*domain.Setting, error)
	Save(ctx context.Context, setting *domain.Setting) (*domain.Setting, error)
}

// Service exposes settings use cases to adapters.
type Service interface {
	Get(ctx context.Context) (*domain.Setting, error)
	ToggleMaintenance(ctx context.Context) (*domain.Setting, error)
	MaintenanceEnabled(ctx context.Context) bool
}
