package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// StoreIDKey is the context key for store ID
	StoreIDKey ctxKey = "store_id"
	// SkipStoreScopeKey is the context key for skipping store scope (super admin)
	SkipStoreScopeKey ctxKey = "skip_store_scope"
)

// StoreScope returns a GORM scope that filters by store
// This should be applied to all queries for store-scoped entities
// If SkipStoreScopeKey is true in context (super admin), returns all records
func StoreScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		// Check if store scope should be skipped (super admin)
		if skipScope, ok := ctx.Value(SkipStoreScopeKey).(bool); ok && skipScope {
			return db // Return unfiltered query for super admins
		}

		storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: return no results if store context missing
			// This prevents accidental cross-store data access
			return db.Where("1 = 0")
		}
		return db.Where("store_id = ?", storeID)
	}
}

// WithSkipStoreScope adds skip store scope flag to context (for super admins)
func WithSkipStoreScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipStoreScopeKey, skip)
}

// WithStore adds store ID to context
func WithStore(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, StoreIDKey, storeID)
}

// GetStoreID extracts store ID from context
func GetStoreID(ctx context.Context) (uuid.UUID, bool) {
	storeID, ok := ctx.Value(StoreIDKey).(uuid.UUID)
	return storeID, ok
}
