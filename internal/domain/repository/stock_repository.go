package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// StockRepository defines the interface for per-store stock counters.
// Mutating operations must run inside a TxManager transaction; the
// implementation takes a row lock before reading the quantity so
// concurrent sales of the same product serialize.
type StockRepository interface {
	Create(ctx context.Context, record *entity.StockRecord) error
	GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.StockRecord, error)
	// GetForUpdate locks the (product, store) row and returns it.
	// Returns apperror.ErrNotFound when no record exists.
	GetForUpdate(ctx context.Context, productID, storeID uuid.UUID) (*entity.StockRecord, error)
	// Decrement subtracts quantity after a locked availability check.
	// Returns apperror.ErrInsufficientStock when not enough is available.
	Decrement(ctx context.Context, productID, storeID uuid.UUID, quantity int) error
	// Increment adds quantity, creating the record when missing
	Increment(ctx context.Context, productID, storeID uuid.UUID, quantity int) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.StockRecord, int64, error)
}

// SerialUnitRepository defines the interface for individually tracked
// serialized units (phones identified by IMEI).
type SerialUnitRepository interface {
	Create(ctx context.Context, unit *entity.SerialUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SerialUnit, error)
	// GetAvailableForUpdate locks the unit row for the given serial,
	// product and store and returns it only when it is unsold and not
	// canceled. Returns apperror.ErrSerialUnavailable otherwise.
	GetAvailableForUpdate(ctx context.Context, serial string, productID, storeID uuid.UUID) (*entity.SerialUnit, error)
	// MarkSold flips the sold flag and records the sale date
	MarkSold(ctx context.Context, id uuid.UUID) error
	// Release clears the sold flag so the unit can be sold again
	Release(ctx context.Context, serial string, productID, storeID uuid.UUID) error
	// CountActiveDuplicates counts unsold, non-canceled units elsewhere
	// carrying the same serial for the same product (other stores)
	CountActiveDuplicates(ctx context.Context, serial string, productID, excludeStoreID uuid.UUID) (int64, error)
	Update(ctx context.Context, unit *entity.SerialUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *SerialUnitFilterParams) ([]entity.SerialUnit, int64, error)
}

// SerialUnitFilterParams contains filtering parameters for serial unit queries
type SerialUnitFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	ProductID  *uuid.UUID
	SoldOnly   bool
	InStock    bool
}
