package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// CreditService manages financing applications and their conversion
// into sales
type CreditService struct {
	creditRepo   repository.CreditApplicationRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	methodRepo   repository.PaymentMethodRepository
	saleSvc      *SaleService
}

// NewCreditService creates a new credit service
func NewCreditService(
	creditRepo repository.CreditApplicationRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	methodRepo repository.PaymentMethodRepository,
	saleSvc *SaleService,
) *CreditService {
	return &CreditService{
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		methodRepo:   methodRepo,
		saleSvc:      saleSvc,
	}
}

// Apply opens a financing application for a customer
func (s *CreditService) Apply(ctx context.Context, customerID uuid.UUID, note *string) (*entity.CreditApplication, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	latest, err := s.creditRepo.GetLatestByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == enum.CreditStatusUnderReview {
		return nil, apperror.NewAppError(409, "Customer already has an application under review")
	}

	application := &entity.CreditApplication{
		StoreID:    storeID,
		CustomerID: customerID,
		Status:     enum.CreditStatusUnderReview,
		Note:       note,
	}
	if err := s.creditRepo.Create(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

// Review resolves an application to approved, rejected or canceled
func (s *CreditService) Review(ctx context.Context, id, reviewerID uuid.UUID, status enum.CreditStatus, note *string) (*entity.CreditApplication, error) {
	if status != enum.CreditStatusApproved && status != enum.CreditStatusRejected && status != enum.CreditStatusCanceled {
		return nil, apperror.NewBadRequestError("Invalid review decision")
	}

	application, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, apperror.NewNotFoundError("Credit application")
	}
	if application.Resolved() {
		return nil, apperror.NewAppError(400, "Application is already resolved")
	}

	now := time.Now()
	application.Status = status
	application.ReviewedBy = &reviewerID
	application.ReviewedAt = &now
	if note != nil {
		application.Note = note
	}

	if err := s.creditRepo.Update(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

// ConvertInput describes the sale to build from an approved application
type ConvertInput struct {
	SellerID         uuid.UUID
	ProductID        uuid.UUID
	SerialNumber     *string
	InstallmentCount int
	AnchorDay        int
	DownMethodID     uuid.UUID
	FinanceMethodID  uuid.UUID
}

// Convert turns an approved application into a sale: one line for the
// financed product, a down-payment leg and a financed leg priced by the
// product's plan for the chosen installment count. The sale creation is
// atomic; the application must be approved.
func (s *CreditService) Convert(ctx context.Context, id uuid.UUID, input *ConvertInput) (*entity.Sale, error) {
	application, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, apperror.NewNotFoundError("Credit application")
	}
	if application.Status != enum.CreditStatusApproved {
		return nil, apperror.NewAppError(400, "Only approved applications can be converted")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	planTotal, ok := product.PlanPrice(input.InstallmentCount)
	if !ok {
		return nil, apperror.NewBadRequestError("Product has no price for this installment plan")
	}

	payments := []SalePaymentInput{
		{
			MethodID:         input.FinanceMethodID,
			Total:            planTotal,
			InstallmentCount: input.InstallmentCount,
			AnchorDay:        input.AnchorDay,
		},
	}
	if product.DownPayment.IsPositive() {
		payments = append([]SalePaymentInput{{
			MethodID:         input.DownMethodID,
			Total:            product.DownPayment,
			InstallmentCount: 1,
		}}, payments...)
	}

	unitPrice := planTotal.Add(product.DownPayment)
	sale, err := s.saleSvc.CreateSale(ctx, &CreateSaleInput{
		SellerID:   input.SellerID,
		CustomerID: application.CustomerID,
		Lines: []SaleLineInput{{
			ProductID:    input.ProductID,
			SerialNumber: input.SerialNumber,
			UnitPrice:    unitPrice,
			Quantity:     1,
			Discount:     decimal.Zero,
		}},
		Payments: payments,
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// GetApplication retrieves one application
func (s *CreditService) GetApplication(ctx context.Context, id uuid.UUID) (*entity.CreditApplication, error) {
	application, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, apperror.NewNotFoundError("Credit application")
	}
	return application, nil
}

// ListApplications lists applications with filtering
func (s *CreditService) ListApplications(ctx context.Context, params *repository.CreditApplicationFilterParams) (*pagination.PaginatedResult[entity.CreditApplication], error) {
	applications, total, err := s.creditRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(applications, pag), nil
}
