package application

import (
	"context"
	"log/slog"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
)

// Service exposes the settings use cases. The repository seeds a default row
// on first read, so Get never fails on an empty store.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
}

func NewService(repo ports.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context) (*domain.Setting, error) {
	return s.repo.Get(ctx)
}

// ToggleMaintenance flips maintenance mode and persists the new state.
func (s *Service) ToggleMaintenance(ctx context.Context) (*domain.Setting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	enabled := setting.ToggleMaintenance()
	saved, err := s.repo.Save(ctx, setting)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "maintenance mode toggled", slog.Bool("maintenance.enabled", enabled))
	}
	return saved, nil
}

// MaintenanceEnabled reports the current switch state. Read failures count as
// not in maintenance so a broken settings store cannot take the API down.
func (s *Service) MaintenanceEnabled(ctx context.Context) bool {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return false
	}
	return setting.MaintenanceMode
}

var _ ports.Service = (*Service)(nil)
