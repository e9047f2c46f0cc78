package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// InstallmentService owns the installment ledger of every payment
type InstallmentService struct {
	installmentRepo repository.InstallmentRepository
	paymentRepo     repository.PaymentRepository
	saleRepo        repository.SaleRepository
	storeRepo       repository.StoreRepository
	notifier        Notifier
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	storeRepo repository.StoreRepository,
	notifier Notifier,
) *InstallmentService {
	return &InstallmentService{
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		saleRepo:        saleRepo,
		storeRepo:       storeRepo,
		notifier:        notifier,
	}
}

// Regenerate replaces a payment's schedule from its current terms. Any
// existing installment rows are deleted first, including rows already
// marked paid. Callers decide when regeneration is warranted; flag-only
// payment updates must not call this.
func (s *InstallmentService) Regenerate(ctx context.Context, payment *entity.Payment) error {
	if err := s.installmentRepo.DeleteByPaymentID(ctx, payment.ID); err != nil {
		return err
	}

	// Single-shot legs (down payment, cash) still get one row so the
	// ledger sees every receivable
	count := payment.InstallmentCount
	if count < 1 {
		count = 1
	}

	value := payment.InstallmentValue()
	installments := make([]entity.Installment, 0, count)
	for n := 1; n <= count; n++ {
		installments = append(installments, entity.Installment{
			PaymentID: payment.ID,
			StoreID:   payment.StoreID,
			Number:    n,
			DueDate:   InstallmentDueDate(payment.FirstDueDate, n),
			Value:     value,
		})
	}

	return s.installmentRepo.CreateBatch(ctx, installments)
}

// GetInstallment retrieves one installment
func (s *InstallmentService) GetInstallment(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	installment, err := s.installmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if installment == nil {
		return nil, apperror.NewNotFoundError("Installment")
	}
	return installment, nil
}

// SelfReport marks an installment as paid by the customer's own word.
// The first report emits a notification so a collaborator confirms it;
// repeat reports and reports on confirmed installments are ignored.
func (s *InstallmentService) SelfReport(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	installment, err := s.GetInstallment(ctx, id)
	if err != nil {
		return nil, err
	}

	if installment.ConfirmedPaid || installment.SelfReported {
		return installment, nil
	}

	now := time.Now()
	installment.SelfReported = true
	installment.SelfReportedAt = &now
	if err := s.installmentRepo.Update(ctx, installment); err != nil {
		return nil, err
	}

	s.emitSelfReported(ctx, installment)
	return installment, nil
}

// SelfReportAll marks every unreported, unconfirmed installment of a
// payment at once. Returns how many were newly reported.
func (s *InstallmentService) SelfReportAll(ctx context.Context, paymentID uuid.UUID) (int, error) {
	installments, err := s.installmentRepo.ListByPaymentID(ctx, paymentID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	reported := 0
	for i := range installments {
		inst := &installments[i]
		if inst.ConfirmedPaid || inst.SelfReported {
			continue
		}
		inst.SelfReported = true
		inst.SelfReportedAt = &now
		if err := s.installmentRepo.Update(ctx, inst); err != nil {
			return reported, err
		}
		s.emitSelfReported(ctx, inst)
		reported++
	}

	return reported, nil
}

// Confirm settles one installment: a collaborator confirms the money
// arrived. Zero paidAmount means the face value net of discount.
func (s *InstallmentService) Confirm(ctx context.Context, id uuid.UUID, paidAmount, discount decimal.Decimal, paymentDate time.Time) (*entity.Installment, error) {
	installment, err := s.GetInstallment(ctx, id)
	if err != nil {
		return nil, err
	}

	if installment.ConfirmedPaid {
		return nil, apperror.NewAppError(400, "Installment is already confirmed as paid")
	}

	if discount.IsNegative() || paidAmount.IsNegative() {
		return nil, apperror.NewBadRequestError("Amounts cannot be negative")
	}

	if paidAmount.IsZero() {
		paidAmount = installment.Value.Sub(discount)
	}

	day := time.Date(paymentDate.Year(), paymentDate.Month(), paymentDate.Day(), 0, 0, 0, 0, time.UTC)
	installment.ConfirmedPaid = true
	installment.PaidAmount = paidAmount
	installment.Discount = discount
	installment.PaymentDate = &day

	if err := s.installmentRepo.Update(ctx, installment); err != nil {
		return nil, err
	}
	return installment, nil
}

// ListByPayment returns a payment's schedule ordered by number
func (s *InstallmentService) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]entity.Installment, error) {
	return s.installmentRepo.ListByPaymentID(ctx, paymentID)
}

// ListDue returns unpaid installments due up to the given day
func (s *InstallmentService) ListDue(ctx context.Context, storeID uuid.UUID, until time.Time, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Installment], error) {
	installments, total, err := s.installmentRepo.ListDue(ctx, storeID, until, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(installments, pag), nil
}

// ListAwaitingConfirmation returns self-reported installments pending review
func (s *InstallmentService) ListAwaitingConfirmation(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Installment], error) {
	installments, total, err := s.installmentRepo.ListAwaitingConfirmation(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(installments, pag), nil
}

func (s *InstallmentService) emitSelfReported(ctx context.Context, installment *entity.Installment) {
	store, err := s.storeRepo.GetByID(ctx, installment.StoreID)
	if err != nil || store == nil {
		return
	}
	s.notifier.Notify(ctx, store, Event{
		Name:    EventInstallmentSelfReported,
		StoreID: store.ID.String(),
		Subject: "Pagamento informado pelo cliente",
		Title:   "Pagamento informado",
		Lines: []string{
			fmt.Sprintf("Installment %d of payment %s was reported as paid by the customer.", installment.Number, installment.PaymentID),
			fmt.Sprintf("Due date: %s, value R$ %s.", installment.DueDate.Format("02/01/2006"), installment.Value.StringFixed(2)),
			"Confirm the payment in the panel once the money is verified.",
		},
	})
}
