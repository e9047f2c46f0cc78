package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetByCPF retrieves a customer by CPF within the current store scope
	GetByCPF(ctx context.Context, cpf string) (*entity.Customer, error)
	// FindByCPFAndBirthDate matches a customer by document and birth date
	// across all stores, used by the unauthenticated self-service lookup
	FindByCPFAndBirthDate(ctx context.Context, cpf string, birthDate time.Time) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns customers with page-based pagination
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ListWithCursor returns customers using cursor-based pagination
	ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error)
}
