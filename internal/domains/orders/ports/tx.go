package ports

import "context"

// TxManager brackets a unit of related mutations: every repository and ledger
// call made with the context passed to fn is applied atomically — all writes
// land on a nil return, none land when fn errors or the caller's context is
// cancelled. Scopes do not nest; opening a scope inside an active one is an
// error.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
