package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/cache"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// lookupCacheTTL bounds how stale a public lookup may be
const lookupCacheTTL = 2 * time.Minute

// LookupService serves the unauthenticated customer self-service view:
// a customer identifies with CPF plus birth date and sees their open
// installments and settlement quotes.
type LookupService struct {
	customerRepo    repository.CustomerRepository
	saleRepo        repository.SaleRepository
	paymentRepo     repository.PaymentRepository
	installmentRepo repository.InstallmentRepository
	installmentSvc  *InstallmentService
	settlementSvc   *SettlementService
	cache           cache.Cache
}

// NewLookupService creates a new lookup service
func NewLookupService(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	installmentRepo repository.InstallmentRepository,
	installmentSvc *InstallmentService,
	settlementSvc *SettlementService,
	c cache.Cache,
) *LookupService {
	if c == nil {
		c = cache.Noop{}
	}
	return &LookupService{
		customerRepo:    customerRepo,
		saleRepo:        saleRepo,
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		installmentSvc:  installmentSvc,
		settlementSvc:   settlementSvc,
		cache:           c,
	}
}

// InstallmentView is one installment as shown to the customer
type InstallmentView struct {
	ID           uuid.UUID              `json:"id"`
	Number       int                    `json:"number"`
	DueDate      time.Time              `json:"due_date"`
	Value        decimal.Decimal        `json:"value"`
	Discount     decimal.Decimal        `json:"discount"`
	Status       enum.InstallmentStatus `json:"status"`
	SelfReported bool                   `json:"self_reported"`
}

// PaymentView is one payment leg as shown to the customer
type PaymentView struct {
	ID           uuid.UUID         `json:"id"`
	Method       string            `json:"method"`
	Total        decimal.Decimal   `json:"total"`
	Blocked      bool              `json:"blocked"`
	Settled      bool              `json:"settled"`
	Installments []InstallmentView `json:"installments"`
	Settlement   *SettlementQuote  `json:"settlement,omitempty"`
}

// LookupResult is the complete self-service view
type LookupResult struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	OverdueCount int             `json:"overdue_count"`
	NextDueDate  *time.Time      `json:"next_due_date,omitempty"`
	Payments     []PaymentView   `json:"payments"`
}

// Lookup resolves a customer by CPF and birth date and assembles their
// payment book. Results are cached briefly; self-reports invalidate the
// entry through InvalidateCustomer.
func (s *LookupService) Lookup(ctx context.Context, cpf string, birthDate time.Time) (*LookupResult, error) {
	if cpf == "" {
		return nil, apperror.NewBadRequestError("CPF is required")
	}

	customer, err := s.customerRepo.FindByCPFAndBirthDate(ctx, cpf, birthDate)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	key := lookupCacheKey(customer.ID)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached LookupResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := s.assemble(ctx, customer)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, raw, lookupCacheTTL); err != nil {
			log.Printf("lookup cache set for customer %s failed: %v", customer.ID, err)
		}
	}

	return result, nil
}

// SelfReport lets the identified customer report one installment paid
func (s *LookupService) SelfReport(ctx context.Context, cpf string, birthDate time.Time, installmentID uuid.UUID) (*entity.Installment, error) {
	customer, err := s.customerRepo.FindByCPFAndBirthDate(ctx, cpf, birthDate)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if err := s.authorizeInstallment(ctx, customer.ID, installmentID); err != nil {
		return nil, err
	}

	installment, err := s.installmentSvc.SelfReport(scopedCtx(ctx, customer.StoreID), installmentID)
	if err != nil {
		return nil, err
	}

	s.InvalidateCustomer(ctx, customer.ID)
	return installment, nil
}

// SelfReportAll reports every open installment of one payment at once
func (s *LookupService) SelfReportAll(ctx context.Context, cpf string, birthDate time.Time, paymentID uuid.UUID) (int, error) {
	customer, err := s.customerRepo.FindByCPFAndBirthDate(ctx, cpf, birthDate)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, apperror.NewNotFoundError("Customer")
	}

	sctx := scopedCtx(ctx, customer.StoreID)
	payment, err := s.paymentRepo.GetWithInstallments(sctx, paymentID)
	if err != nil {
		return 0, err
	}
	if payment == nil {
		return 0, apperror.NewNotFoundError("Payment")
	}

	sale, err := s.saleRepo.GetByID(sctx, payment.SaleID)
	if err != nil {
		return 0, err
	}
	if sale == nil || sale.CustomerID != customer.ID {
		return 0, apperror.ErrForbidden
	}

	reported, err := s.installmentSvc.SelfReportAll(sctx, paymentID)
	if err != nil {
		return reported, err
	}

	s.InvalidateCustomer(ctx, customer.ID)
	return reported, nil
}

// InvalidateCustomer drops the customer's cached lookup
func (s *LookupService) InvalidateCustomer(ctx context.Context, customerID uuid.UUID) {
	if err := s.cache.Delete(ctx, lookupCacheKey(customerID)); err != nil {
		log.Printf("lookup cache invalidation for customer %s failed: %v", customerID, err)
	}
}

func (s *LookupService) assemble(ctx context.Context, customer *entity.Customer) (*LookupResult, error) {
	sctx := scopedCtx(ctx, customer.StoreID)

	result := &LookupResult{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Outstanding:  decimal.Zero,
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 100},
		CustomerID: &customer.ID,
	}
	sales, _, err := s.saleRepo.List(sctx, params)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	for i := range sales {
		payments, err := s.paymentRepo.ListBySaleID(sctx, sales[i].ID)
		if err != nil {
			return nil, err
		}

		for j := range payments {
			payment := &payments[j]
			if payment.Deactivated || !payment.Method.SupportsInstallments {
				continue
			}

			view := PaymentView{
				ID:      payment.ID,
				Method:  payment.Method.Name,
				Total:   payment.Total,
				Blocked: payment.Blocked,
				Settled: payment.Settled,
			}

			installments, err := s.installmentRepo.ListByPaymentID(sctx, payment.ID)
			if err != nil {
				return nil, err
			}

			for k := range installments {
				inst := &installments[k]
				status := inst.Status(today)
				view.Installments = append(view.Installments, InstallmentView{
					ID:           inst.ID,
					Number:       inst.Number,
					DueDate:      inst.DueDate,
					Value:        inst.Value,
					Discount:     inst.Discount,
					Status:       status,
					SelfReported: inst.SelfReported,
				})

				if status == enum.InstallmentStatusPaid {
					continue
				}
				result.Outstanding = result.Outstanding.Add(inst.Outstanding())
				if status == enum.InstallmentStatusOverdue {
					result.OverdueCount++
				}
				if result.NextDueDate == nil || inst.DueDate.Before(*result.NextDueDate) {
					due := inst.DueDate
					result.NextDueDate = &due
				}
			}

			if !payment.Settled {
				if quote, err := s.settlementSvc.Quote(sctx, payment.ID); err == nil {
					view.Settlement = quote
				}
			}

			result.Payments = append(result.Payments, view)
		}
	}

	return result, nil
}

// authorizeInstallment ensures the installment belongs to the customer
func (s *LookupService) authorizeInstallment(ctx context.Context, customerID, installmentID uuid.UUID) error {
	installments, err := s.installmentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	for i := range installments {
		if installments[i].ID == installmentID {
			return nil
		}
	}
	return apperror.ErrForbidden
}

func lookupCacheKey(customerID uuid.UUID) string {
	return fmt.Sprintf("lookup:customer:%s", customerID)
}

// scopedCtx runs repository calls under the customer's own store scope
func scopedCtx(ctx context.Context, storeID uuid.UUID) context.Context {
	return infraRepo.WithStore(ctx, storeID)
}
