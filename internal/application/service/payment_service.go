package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

// PaymentService manages payment legs and their methods
type PaymentService struct {
	paymentRepo    repository.PaymentRepository
	methodRepo     repository.PaymentMethodRepository
	installmentSvc *InstallmentService
	txManager      repository.TxManager
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	installmentSvc *InstallmentService,
	txManager repository.TxManager,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		methodRepo:     methodRepo,
		installmentSvc: installmentSvc,
		txManager:      txManager,
	}
}

// GetPayment retrieves a payment with its schedule
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetWithInstallments(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// UpdatePaymentInput carries the editable payment fields. Nil pointers
// leave the field untouched.
type UpdatePaymentInput struct {
	Total            *decimal.Decimal
	InstallmentCount *int
	FirstDueDate     *time.Time
	MethodID         *uuid.UUID
	DiscountPct      *decimal.Decimal
	Blocked          *bool
	Deactivated      *bool
}

// UpdatePayment applies the edit and regenerates the schedule only when
// a core term changed. Toggling blocked, deactivated or the discount
// percentage keeps every installment row intact, including payment
// history already confirmed on them.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, input *UpdatePaymentInput) (*entity.Payment, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetWithInstallments(ctx, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		if payment.Settled {
			return apperror.NewAppError(400, "Settled payments cannot be edited")
		}

		prev := *payment

		if input.Total != nil {
			if !input.Total.IsPositive() {
				return apperror.NewBadRequestError("Payment total must be positive")
			}
			payment.Total = *input.Total
		}
		if input.InstallmentCount != nil {
			if *input.InstallmentCount < 1 {
				return apperror.NewBadRequestError("Installment count must be at least 1")
			}
			payment.InstallmentCount = *input.InstallmentCount
		}
		if input.FirstDueDate != nil {
			payment.FirstDueDate = *input.FirstDueDate
		}
		if input.MethodID != nil {
			method, err := s.methodRepo.GetByID(ctx, *input.MethodID)
			if err != nil {
				return err
			}
			if method == nil {
				return apperror.NewNotFoundError("Payment method")
			}
			payment.MethodID = method.ID
			payment.Method = *method
		}
		if input.DiscountPct != nil {
			payment.DiscountPct = *input.DiscountPct
		}
		if input.Blocked != nil {
			payment.Blocked = *input.Blocked
		}
		if input.Deactivated != nil {
			payment.Deactivated = *input.Deactivated
		}

		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}

		if payment.CoreTermsChanged(&prev) {
			return s.installmentSvc.Regenerate(ctx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPayment(ctx, id)
}

// SetBlocked flips only the blocked flag, never touching the schedule
func (s *PaymentService) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*entity.Payment, error) {
	return s.UpdatePayment(ctx, id, &UpdatePaymentInput{Blocked: &blocked})
}

// ListMethods returns every payment method
func (s *PaymentService) ListMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	return s.methodRepo.List(ctx)
}

// CreateMethodInput represents the create payment method input
type CreateMethodInput struct {
	Name                 string
	CountsInRegister     bool
	SupportsInstallments bool
	Financing            bool
	OffBooks             bool
}

// CreateMethod creates a payment method
func (s *PaymentService) CreateMethod(ctx context.Context, input *CreateMethodInput) (*entity.PaymentMethod, error) {
	existing, err := s.methodRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(409, "Payment method already exists")
	}

	method := &entity.PaymentMethod{
		Name:                 input.Name,
		CountsInRegister:     input.CountsInRegister,
		SupportsInstallments: input.SupportsInstallments,
		Financing:            input.Financing,
		OffBooks:             input.OffBooks,
	}
	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}
