package persistence

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// withTx returns a context carrying the active transaction handle
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// dbFrom resolves the database handle for a repository call: the active
// transaction if the context carries one, the repository's own connection
// otherwise. Repositories stay oblivious to transaction boundaries.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// GormTransactionScope implements shared.TransactionScope on GORM. The
// transaction handle travels in the context, so every repository call made
// inside the closure joins the same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// WithinTransaction runs fn inside a database transaction. A nested call
// joins the transaction already in the context instead of opening a new one.
func (s *GormTransactionScope) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

var _ shared.TransactionScope = (*GormTransactionScope)(nil)
