package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, installments []entity.Installment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error)
	Update(ctx context.Context, installment *entity.Installment) error
	ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]entity.Installment, error)
	DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error
	// ListByCustomer returns every installment of the customer's active
	// payments across their sales, ordered by due date
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Installment, error)
	// ListDue returns unpaid installments due on or before the given day
	ListDue(ctx context.Context, storeID uuid.UUID, until time.Time, params *pagination.PaginationParams) ([]entity.Installment, int64, error)
	// ListAwaitingConfirmation returns self-reported, unconfirmed installments
	ListAwaitingConfirmation(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Installment, int64, error)
}
