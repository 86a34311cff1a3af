package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository holds the single settings row in memory.
type Repository struct {
	mu      sync.RWMutex
	setting *domain.Setting
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) Get(_ context.Context) (*domain.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setting == nil {
		r.setting = &domain.Setting{ID: 1}
		r.setting.Audit.Touch(time.Now())
	}
	clone := *r.setting
	return &clone, nil
}

func (r *Repository) Save(_ context.Context, setting *domain.Setting) (*domain.Setting, error) {
	if setting == nil {
		return nil, errors.New("setting is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *setting
	if clone.ID == 0 {
		clone.ID = 1
	}
	clone.Audit.Touch(time.Now())
	r.setting = &clone
	result := clone
	return &result, nil
}
