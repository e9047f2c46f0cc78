package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
	"github.com/credfacil/backoffice-api/pkg/utils"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name      string
	Email     *string
	Phone     string
	CPF       string
	RG        *string
	BirthDate time.Time
	ZipCode   *string
	Address   *string
	District  *string
	City      *string
	Notes     *string
}

// CreateCustomer creates a new customer. CPF is stored digits-only and
// must be unique within the store.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	cpf := utils.NormalizeCPF(input.CPF)
	if !utils.ValidateCPF(cpf) {
		return nil, apperror.NewBadRequestError("Invalid CPF")
	}

	existing, err := s.customerRepo.GetByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this CPF already exists")
	}

	customer := &entity.Customer{
		StoreID:   storeID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CPF:       cpf,
		RG:        input.RG,
		BirthDate: input.BirthDate,
		ZipCode:   input.ZipCode,
		Address:   input.Address,
		District:  input.District,
		City:      input.City,
		Notes:     input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers within the current store
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers using cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		return nil, err
	}

	// Determine if there was a cursor provided (meaning we're not on first page)
	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(customers, params.Limit,
		func(c entity.Customer) string { return c.ID.String() },
		func(c entity.Customer) time.Time { return c.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID        uuid.UUID
	Name      *string
	Email     *string
	Phone     *string
	RG        *string
	BirthDate *time.Time
	ZipCode   *string
	Address   *string
	District  *string
	City      *string
	Notes     *string
}

// UpdateCustomer updates a customer. CPF is immutable after creation.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.RG != nil {
		customer.RG = input.RG
	}
	if input.BirthDate != nil {
		customer.BirthDate = *input.BirthDate
	}
	if input.ZipCode != nil {
		customer.ZipCode = input.ZipCode
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.District != nil {
		customer.District = input.District
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	return s.customerRepo.Delete(ctx, id)
}
