package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
	"github.com/credfacil/backoffice-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name           string
	Code           string
	RequiresSerial bool
	CashPrice      decimal.Decimal
	DownPayment    decimal.Decimal
	Plan4Price     decimal.Decimal
	Plan6Price     decimal.Decimal
	Plan8Price     decimal.Decimal
	DealerShare    decimal.Decimal
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	// Check if code already exists
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	if !input.CashPrice.IsPositive() {
		return nil, apperror.NewBadRequestError("Cash price must be positive")
	}

	product := &entity.Product{
		Name:           input.Name,
		Code:           code,
		RequiresSerial: input.RequiresSerial,
		CashPrice:      input.CashPrice,
		DownPayment:    input.DownPayment,
		Plan4Price:     input.Plan4Price,
		Plan6Price:     input.Plan6Price,
		Plan8Price:     input.Plan8Price,
		DealerShare:    input.DealerShare,
		Active:         true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	products, err := s.productRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit,
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID             uuid.UUID
	Name           *string
	Code           *string
	RequiresSerial *bool
	CashPrice      *decimal.Decimal
	DownPayment    *decimal.Decimal
	Plan4Price     *decimal.Decimal
	Plan6Price     *decimal.Decimal
	Plan8Price     *decimal.Decimal
	DealerShare    *decimal.Decimal
	Active         *bool
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Check if new code is unique
	if input.Code != nil && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.RequiresSerial != nil {
		product.RequiresSerial = *input.RequiresSerial
	}
	if input.CashPrice != nil {
		if !input.CashPrice.IsPositive() {
			return nil, apperror.NewBadRequestError("Cash price must be positive")
		}
		product.CashPrice = *input.CashPrice
	}
	if input.DownPayment != nil {
		product.DownPayment = *input.DownPayment
	}
	if input.Plan4Price != nil {
		product.Plan4Price = *input.Plan4Price
	}
	if input.Plan6Price != nil {
		product.Plan6Price = *input.Plan6Price
	}
	if input.Plan8Price != nil {
		product.Plan8Price = *input.Plan8Price
	}
	if input.DealerShare != nil {
		product.DealerShare = *input.DealerShare
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	return s.productRepo.Delete(ctx, id)
}
