package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

var _ ports.TxManager = (*TxManager)(nil)

type txKey struct{}

// TxManager runs order units of work inside a single database transaction.
// The open *gorm.DB handle travels in the context so that the repository and
// the inventory ledger join the same transaction without knowing about it.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTransaction opens a transaction, runs fn with the handle in ctx and
// commits on success. Any error from fn rolls the whole scope back. Scopes do
// not nest.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m == nil || m.db == nil {
		return errors.New("postgres tx manager not configured")
	}
	if ctx.Value(txKey{}) != nil {
		return errors.New("transaction scope already open")
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction handle when one is open, otherwise
// the fallback connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
