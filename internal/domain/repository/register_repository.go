package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// CashRegisterRepository defines the interface for register session data operations
type CashRegisterRepository interface {
	Create(ctx context.Context, register *entity.CashRegister) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error)
	// GetOpenForDay returns the open session covering the given business
	// day for a store, or apperror.ErrNotFound when none is open
	GetOpenForDay(ctx context.Context, storeID uuid.UUID, day time.Time) (*entity.CashRegister, error)
	Update(ctx context.Context, register *entity.CashRegister) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashRegister, int64, error)
}

// CashMovementRepository defines the interface for manual register movements
type CashMovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashMovement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRegister(ctx context.Context, registerID uuid.UUID) ([]entity.CashMovement, error)
}
