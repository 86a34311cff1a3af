package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

var _ userports.SessionStore = (*SessionStore)(nil)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists session tokens in PostgreSQL.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &SessionStore{db: db, ttl: ttl}
	if db != nil {
		_ = db.AutoMigrate(&sessionRecord{})
	}
	return store
}

type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Save upserts a session keyed by token.
func (s *SessionStore) Save(ctx context.Context, token, username string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	username = strings.TrimSpace(username)
	if token == "" || username == "" {
		return errors.New("username and token are required")
	}
	expiry := time.Now().Add(s.ttl)
	rec := sessionRecord{Token: token, Username: username, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Resolve returns the username owning a live token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		First(&rec, "token = ? AND (expires_at IS NULL OR expires_at > ?)", strings.TrimSpace(token), time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", userports.ErrSessionNotFound
		}
		return "", err
	}
	return rec.Username, nil
}

// Delete removes a session by token.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error
}

// DeleteByUsername removes every session of a user.
func (s *SessionStore) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "username = ?", username).Error
}

// PurgeExpired removes all expired sessions. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&sessionRecord{}).Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
