package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/enum"
)

// Installment is one slice of a payment's schedule. Rows are owned by
// schedule generation: editing a payment's core terms deletes and
// recreates every installment, so no state here survives such an edit.
type Installment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PaymentID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	Number         int             `gorm:"not null" json:"number"`
	DueDate        time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Value          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"value"`
	PaidAmount     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"paid_amount"`
	Discount       decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"discount"`
	PaymentDate    *time.Time      `gorm:"type:date" json:"payment_date,omitempty"`
	SelfReported   bool            `gorm:"default:false" json:"self_reported"`
	SelfReportedAt *time.Time      `json:"self_reported_at,omitempty"`
	ConfirmedPaid  bool            `gorm:"default:false" json:"confirmed_paid"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Relationships
	Payment Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new installment
func (i *Installment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Installment model
func (Installment) TableName() string {
	return "installments"
}

// Outstanding returns how much is still owed on the installment after
// payments and forgiven discount.
func (i *Installment) Outstanding() decimal.Decimal {
	out := i.Value.Sub(i.PaidAmount).Sub(i.Discount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Status derives the display state of the installment for the given
// reference day. Confirmation wins over self report, self report wins
// over the due date comparison. Status is never stored.
func (i *Installment) Status(today time.Time) enum.InstallmentStatus {
	if i.ConfirmedPaid {
		return enum.InstallmentStatusPaid
	}
	if i.SelfReported {
		return enum.InstallmentStatusAwaitingConfirmation
	}
	ty, tm, td := today.Date()
	dy, dm, dd := i.DueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	ref := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if due.Before(ref) {
		return enum.InstallmentStatusOverdue
	}
	return enum.InstallmentStatusUpcoming
}
