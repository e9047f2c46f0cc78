package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdatePaymentRequest represents a payment update request. Changing
// total, installment count, first due date or method rebuilds the
// installment book; flag changes leave it alone.
type UpdatePaymentRequest struct {
	MethodID         *uuid.UUID       `json:"method_id"`
	Total            *decimal.Decimal `json:"total"`
	InstallmentCount *int             `json:"installment_count" binding:"omitempty,min=1,max=24"`
	FirstDueDate     *string          `json:"first_due_date"`
	Blocked          *bool            `json:"blocked"`
	Deactivated      *bool            `json:"deactivated"`
}

// SetBlockedRequest represents a payment block/unblock request
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

// CreatePaymentMethodRequest represents a payment method creation request
type CreatePaymentMethodRequest struct {
	Name                 string `json:"name" binding:"required,min=2,max=100"`
	CountsInRegister     bool   `json:"counts_in_register"`
	SupportsInstallments bool   `json:"supports_installments"`
	Financing            bool   `json:"financing"`
	OffBooks             bool   `json:"off_books"`
}

// ConfirmInstallmentRequest represents a payment confirmation by staff.
// A zero paid amount confirms the installment's face value.
type ConfirmInstallmentRequest struct {
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Discount    decimal.Decimal `json:"discount"`
	PaymentDate *string         `json:"payment_date"`
}
