package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/adapters/memory"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/domain"
)

func TestToggleMaintenance(t *testing.T) {
	svc := NewService(memory.NewRepository(), nil)

	setting, err := svc.Get(context.Background())
	require.NoError(t, err)
	require.False(t, setting.MaintenanceMode)
	require.False(t, svc.MaintenanceEnabled(context.Background()))

	toggled, err := svc.ToggleMaintenance(context.Background())
	require.NoError(t, err)
	require.True(t, toggled.MaintenanceMode)
	require.True(t, svc.MaintenanceEnabled(context.Background()))

	toggled, err = svc.ToggleMaintenance(context.Background())
	require.NoError(t, err)
	require.False(t, toggled.MaintenanceMode)
}

type brokenSettingsRepo struct{}

func (brokenSettingsRepo) Get(context.Context) (*domain.Setting, error) {
	return nil, errors.New("settings table unavailable")
}

func (brokenSettingsRepo) Save(_ context.Context, s *domain.Setting) (*domain.Setting, error) {
	return s, nil
}

func TestMaintenanceEnabled_BrokenStoreFailsOpen(t *testing.T) {
	svc := NewService(brokenSettingsRepo{}, nil)
	require.False(t, svc.MaintenanceEnabled(context.Background()))
}
