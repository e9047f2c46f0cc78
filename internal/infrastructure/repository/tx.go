package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
)

// txKey is the context key carrying the active transaction handle
const txKey ctxKey = "tx"

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by the given database
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// Do runs fn inside a database transaction. The transaction handle is
// stored in the context passed to fn; every repository resolves its
// connection through dbFrom, so all calls made with that context share
// the transaction. A non-nil error from fn rolls everything back.
func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// dbFrom returns the transaction handle carried by the context, or the
// repository's own connection when no transaction is active
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback
}
