package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item. Serialized products (phones) are
// tracked per unit through SerialUnit; bulk products only through
// StockRecord counters. Financing plan prices are per installment count.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Code           string          `gorm:"size:100;unique;not null" json:"code"`
	RequiresSerial bool            `gorm:"default:false" json:"requires_serial"`
	CashPrice      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"cash_price"`
	DownPayment    decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"down_payment"`
	Plan4Price     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"plan_4_price"`
	Plan6Price     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"plan_6_price"`
	Plan8Price     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"plan_8_price"`
	DealerShare    decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"dealer_share"`
	Active         bool            `gorm:"default:true" json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PlanPrice returns the financed total for the given installment count,
// or false when the product has no price for that plan.
func (p *Product) PlanPrice(installmentCount int) (decimal.Decimal, bool) {
	switch installmentCount {
	case 4:
		return p.Plan4Price, p.Plan4Price.IsPositive()
	case 6:
		return p.Plan6Price, p.Plan6Price.IsPositive()
	case 8:
		return p.Plan8Price, p.Plan8Price.IsPositive()
	}
	return decimal.Zero, false
}
