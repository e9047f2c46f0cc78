package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/enum"
)

// CashRegister is one store's daily register session. Sales may only be
// created, edited or canceled while the session for the business day is
// open (ClosedOn is nil).
type CashRegister struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`
	OpenedOn  time.Time  `gorm:"type:date;not null" json:"opened_on"`
	ClosedOn  *time.Time `gorm:"type:date" json:"closed_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relationships
	Store     Store          `gorm:"foreignKey:StoreID" json:"-"`
	Movements []CashMovement `gorm:"foreignKey:RegisterID" json:"movements,omitempty"`
	Sales     []Sale         `gorm:"foreignKey:RegisterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new register session
func (r *CashRegister) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashRegister model
func (CashRegister) TableName() string {
	return "cash_registers"
}

// IsOpen reports whether the session still accepts sales
func (r *CashRegister) IsOpen() bool {
	return r.ClosedOn == nil
}

// CashMovement is a manual credit or debit entry against a register
// session, outside of sales (change funds, withdrawals, expenses).
type CashMovement struct {
	ID         uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	RegisterID uuid.UUID             `gorm:"type:uuid;not null;index" json:"register_id"`
	StoreID    uuid.UUID             `gorm:"type:uuid;not null;index" json:"store_id"`
	Kind       enum.CashMovementType `gorm:"default:0" json:"kind"`
	Reason     string                `gorm:"size:100;not null" json:"reason"`
	Amount     decimal.Decimal       `gorm:"type:numeric(10,2);not null" json:"amount"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`

	// Relationships
	Register CashRegister `gorm:"foreignKey:RegisterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new cash movement
func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashMovement model
func (CashMovement) TableName() string {
	return "cash_movements"
}
