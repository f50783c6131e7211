package persistence

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey carries the active *gorm.DB transaction through a context.
type txContextKey struct{}

// GormTxManager implements shared.TxManager on top of a GORM connection.
// The transaction handle travels in the context; repositories created from
// the same Database join it transparently via dbFromContext.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// RunInTransaction runs fn inside a single database transaction. All
// repository calls made with the context passed to fn share the transaction,
// so they commit or roll back together.
func (m *GormTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transaction carried in ctx, or the fallback
// connection scoped to ctx when no transaction is active.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
