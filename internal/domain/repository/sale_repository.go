package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails loads a sale with its lines, payments, installments,
	// customer and payment methods
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
	// ListByRegister returns every non-canceled sale of a register session
	ListByRegister(ctx context.Context, registerID uuid.UUID) ([]entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	CustomerID      *uuid.UUID
	SellerID        *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeCanceled bool
	SortBy          string
	SortOrder       string
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor          *pagination.CursorParams
	Search          string
	CustomerID      *uuid.UUID
	SellerID        *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeCanceled bool
}

// SaleLineRepository defines the interface for sale line data operations
type SaleLineRepository interface {
	Create(ctx context.Context, line *entity.SaleLine) error
	CreateBatch(ctx context.Context, lines []entity.SaleLine) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}
