package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is one customer transaction at a store. Sales are never hard
// deleted: cancellation flips the Canceled flag, an exchange flips the
// Exchanged flag and appends to AuditNote.
type Sale struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	SellerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"seller_id"`
	RegisterID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"register_id"`
	SaleDate    time.Time  `gorm:"not null" json:"sale_date"`
	Note        *string    `gorm:"type:text" json:"note,omitempty"`
	AuditNote   string     `gorm:"type:text" json:"audit_note,omitempty"`
	DealerShare decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"dealer_share"`
	Canceled    bool       `gorm:"default:false;index" json:"canceled"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
	Exchanged   bool       `gorm:"default:false" json:"exchanged"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	Store    Store        `gorm:"foreignKey:StoreID" json:"-"`
	Customer Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Seller   User         `gorm:"foreignKey:SellerID" json:"-"`
	Register CashRegister `gorm:"foreignKey:RegisterID" json:"-"`
	Lines    []SaleLine   `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
	Payments []Payment    `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Total sums every line's effective value
func (s *Sale) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lines {
		total = total.Add(s.Lines[i].Total())
	}
	return total
}

// PaymentsTotal sums the value of every on-books payment leg
func (s *Sale) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Payments {
		if s.Payments[i].Method.OffBooks {
			continue
		}
		total = total.Add(s.Payments[i].Total)
	}
	return total
}

// SaleLine is one product (unit or quantity) sold within a sale. Lines of
// serialized products carry the serial number they consumed.
type SaleLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	SerialNumber *string         `gorm:"size:100" json:"serial_number,omitempty"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity"`
	Discount     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"discount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale line
func (l *SaleLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLine model
func (SaleLine) TableName() string {
	return "sale_lines"
}

// Total returns unit price times quantity minus the line discount
func (l *SaleLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(l.Discount)
}
