package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user store keyed by username.
type Repository struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}}
}

func (r *Repository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *user
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	key := strings.ToLower(clone.Username)
	if existing, ok := r.users[key]; ok {
		clone.ID = existing.ID
		clone.Audit = existing.Audit
	} else if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	clone.Audit.Touch(time.Now())
	r.users[key] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(username))
	if _, ok := r.users[key]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, key)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		list = append(list, &clone)
	}
	return list, nil
}
