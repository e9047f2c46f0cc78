package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

// SettlementService computes and applies early-settlement quotes
type SettlementService struct {
	paymentRepo     repository.PaymentRepository
	installmentRepo repository.InstallmentRepository
	storeRepo       repository.StoreRepository
	txManager       repository.TxManager
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	paymentRepo repository.PaymentRepository,
	installmentRepo repository.InstallmentRepository,
	storeRepo repository.StoreRepository,
	txManager repository.TxManager,
) *SettlementService {
	return &SettlementService{
		paymentRepo:     paymentRepo,
		installmentRepo: installmentRepo,
		storeRepo:       storeRepo,
		txManager:       txManager,
	}
}

// SettlementQuote is the result of a settlement computation
type SettlementQuote struct {
	PaymentID       uuid.UUID        `json:"payment_id"`
	Outstanding     decimal.Decimal  `json:"outstanding"`
	DiscountPct     decimal.Decimal  `json:"discount_pct"`
	DiscountedTotal decimal.Decimal  `json:"discounted_total"`
	Installments    []InstallmentCut `json:"installments"`
}

// InstallmentCut is one installment's share of the discounted total
type InstallmentCut struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	Number        int             `json:"number"`
	OldValue      decimal.Decimal `json:"old_value"`
	NewValue      decimal.Decimal `json:"new_value"`
}

// Quote computes the early-settlement values for a payment without
// writing anything. The outstanding total over the unconfirmed
// installments is reduced by the store's discount percentage for the
// payment's plan, then redistributed proportionally; the last
// outstanding installment absorbs the rounding remainder so the new
// values sum exactly to the discounted total.
func (s *SettlementService) Quote(ctx context.Context, paymentID uuid.UUID) (*SettlementQuote, error) {
	payment, err := s.paymentRepo.GetWithInstallments(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	store, err := s.storeRepo.GetByID(ctx, payment.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	return s.compute(payment, store)
}

// Settle applies a settlement quote atomically: every outstanding
// installment is confirmed paid at its redistributed value with the
// forgiven part recorded as discount, and the payment is flagged
// settled. After a settle nothing on the payment is outstanding.
func (s *SettlementService) Settle(ctx context.Context, paymentID uuid.UUID) (*SettlementQuote, error) {
	var quote *SettlementQuote

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetWithInstallments(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		if payment.Settled {
			return apperror.NewAppError(400, "Payment is already settled")
		}

		store, err := s.storeRepo.GetByID(ctx, payment.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return apperror.NewNotFoundError("Store")
		}

		quote, err = s.compute(payment, store)
		if err != nil {
			return err
		}

		cutByID := make(map[uuid.UUID]InstallmentCut, len(quote.Installments))
		for _, cut := range quote.Installments {
			cutByID[cut.InstallmentID] = cut
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		for i := range payment.Installments {
			inst := &payment.Installments[i]
			cut, ok := cutByID[inst.ID]
			if !ok {
				continue
			}
			inst.Discount = cut.OldValue.Sub(cut.NewValue)
			inst.PaidAmount = cut.NewValue
			inst.ConfirmedPaid = true
			inst.PaymentDate = &today
			if err := s.installmentRepo.Update(ctx, inst); err != nil {
				return err
			}
		}

		payment.Settled = true
		payment.DiscountPct = quote.DiscountPct
		return s.paymentRepo.Update(ctx, payment)
	})
	if err != nil {
		if _, ok := err.(*apperror.AppError); !ok {
			log.Printf("settlement of payment %s failed: %v", paymentID, err)
		}
		return nil, err
	}

	return quote, nil
}

// compute builds the quote for the payment's outstanding installments
func (s *SettlementService) compute(payment *entity.Payment, store *entity.Store) (*SettlementQuote, error) {
	outstanding := make([]*entity.Installment, 0, len(payment.Installments))
	total := decimal.Zero
	for i := range payment.Installments {
		inst := &payment.Installments[i]
		if inst.ConfirmedPaid {
			continue
		}
		outstanding = append(outstanding, inst)
		total = total.Add(inst.Value)
	}

	if len(outstanding) == 0 || !total.IsPositive() {
		return nil, apperror.ErrSettlementInconsistency
	}

	pct := store.SettlementDiscountPct(payment.InstallmentCount)
	factor := decimal.NewFromInt(100).Sub(pct).Div(decimal.NewFromInt(100))
	discountedTotal := total.Mul(factor).Round(2)

	quote := &SettlementQuote{
		PaymentID:       payment.ID,
		Outstanding:     total,
		DiscountPct:     pct,
		DiscountedTotal: discountedTotal,
		Installments:    make([]InstallmentCut, 0, len(outstanding)),
	}

	// Proportional redistribution; the last row absorbs the remainder
	// so the new values sum exactly to the discounted total
	assigned := decimal.Zero
	for i, inst := range outstanding {
		var newValue decimal.Decimal
		if i == len(outstanding)-1 {
			newValue = discountedTotal.Sub(assigned)
		} else {
			newValue = inst.Value.Div(total).Mul(discountedTotal).Round(2)
			assigned = assigned.Add(newValue)
		}
		quote.Installments = append(quote.Installments, InstallmentCut{
			InstallmentID: inst.ID,
			Number:        inst.Number,
			OldValue:      inst.Value,
			NewValue:      newValue,
		})
	}

	return quote, nil
}
