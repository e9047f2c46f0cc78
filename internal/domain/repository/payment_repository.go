package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
)

// PaymentMethodRepository defines the interface for payment method data operations
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entity.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error)
	Update(ctx context.Context, method *entity.PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.PaymentMethod, error)
}

// PaymentRepository defines the interface for payment leg data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetWithInstallments loads a payment with its method and schedule,
	// installments ordered by number
	GetWithInstallments(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error)
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}
