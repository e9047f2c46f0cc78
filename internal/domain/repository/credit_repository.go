package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// CreditApplicationRepository defines the interface for credit application data operations
type CreditApplicationRepository interface {
	Create(ctx context.Context, application *entity.CreditApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditApplication, error)
	Update(ctx context.Context, application *entity.CreditApplication) error
	// GetLatestByCustomer returns the most recent application for a customer
	GetLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditApplication, error)
	List(ctx context.Context, params *CreditApplicationFilterParams) ([]entity.CreditApplication, int64, error)
}

// CreditApplicationFilterParams contains filtering parameters for credit application queries
type CreditApplicationFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.CreditStatus
	CustomerID *uuid.UUID
}
