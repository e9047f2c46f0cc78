package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRecord holds the available quantity of a product at one store.
// The (product, store) pair is unique; the same product at another store
// has an independent record. AvailableQuantity never goes below zero --
// all mutations go through the stock repository's guarded operations.
type StockRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_store" json:"product_id"`
	StoreID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_store" json:"store_id"`
	AvailableQuantity int       `gorm:"not null;default:0;check:available_quantity >= 0" json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Store   Store   `gorm:"foreignKey:StoreID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock record
func (s *StockRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockRecord model
func (StockRecord) TableName() string {
	return "stock_records"
}

// SerialUnit is one individually tracked physical unit (IMEI) of a
// serialized product at a store. A unit can be sold to at most one active
// sale line at a time.
type SerialUnit struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SerialNumber string     `gorm:"size:100;not null;uniqueIndex:idx_serial_product_store" json:"serial_number"`
	ProductID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_serial_product_store" json:"product_id"`
	StoreID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_serial_product_store" json:"store_id"`
	Sold         bool       `gorm:"default:false" json:"sold"`
	Canceled     bool       `gorm:"default:false" json:"canceled"`
	SaleDate     *time.Time `json:"sale_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Store   Store   `gorm:"foreignKey:StoreID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new serial unit
func (s *SerialUnit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SerialUnit model
func (SerialUnit) TableName() string {
	return "serial_units"
}
