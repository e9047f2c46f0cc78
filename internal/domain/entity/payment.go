package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod describes how a payment leg is collected. Flags mirror the
// financing back office: CountsInRegister legs enter the daily cash
// balance, SupportsInstallments legs carry a schedule, OffBooks legs are
// excluded from sale totals.
type PaymentMethod struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name                 string    `gorm:"size:100;unique;not null" json:"name"`
	CountsInRegister     bool      `gorm:"default:false" json:"counts_in_register"`
	SupportsInstallments bool      `gorm:"default:false" json:"supports_installments"`
	Financing            bool      `gorm:"default:false" json:"financing"`
	OffBooks             bool      `gorm:"default:false" json:"off_books"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new payment method
func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// Payment is one financing leg of a sale (down payment, installment plan).
// Its installment schedule is regenerated whenever a core term changes;
// only the Blocked, Deactivated, Settled and DiscountPct fields can change
// without wiping the schedule.
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	MethodID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"method_id"`
	Total            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	InstallmentCount int             `gorm:"not null;default:1" json:"installment_count"`
	FirstDueDate     time.Time       `gorm:"type:date;not null" json:"first_due_date"`
	DiscountPct      decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"discount_pct"`
	Blocked          bool            `gorm:"default:false" json:"blocked"`
	Deactivated      bool            `gorm:"default:false" json:"deactivated"`
	Settled          bool            `gorm:"default:false" json:"settled"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relationships
	Sale         Sale          `gorm:"foreignKey:SaleID" json:"-"`
	Method       PaymentMethod `gorm:"foreignKey:MethodID" json:"method,omitempty"`
	Installments []Installment `gorm:"foreignKey:PaymentID" json:"installments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// InstallmentValue returns the face value of each installment: the total
// split evenly, rounded to cents. Rounding drift is not corrected at
// generation time; settlement squares it on the last installment.
func (p *Payment) InstallmentValue() decimal.Decimal {
	if p.InstallmentCount <= 0 {
		return p.Total
	}
	return p.Total.Div(decimal.NewFromInt(int64(p.InstallmentCount))).Round(2)
}

// CoreTermsChanged reports whether any field that drives the installment
// schedule differs between the two versions of a payment. Flag-only
// updates (blocked, deactivated, settled) and discount changes do not
// count; they must never trigger regeneration.
func (p *Payment) CoreTermsChanged(prev *Payment) bool {
	return !p.Total.Equal(prev.Total) ||
		p.InstallmentCount != prev.InstallmentCount ||
		!p.FirstDueDate.Equal(prev.FirstDueDate) ||
		p.MethodID != prev.MethodID
}
