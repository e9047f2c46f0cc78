package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a financing customer. CPF plus birth date is the
// lookup key for the public payment-consultation endpoint.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     string         `gorm:"size:20;not null" json:"phone"`
	CPF       string         `gorm:"size:14;not null;index;column:cpf" json:"cpf"`
	RG        *string        `gorm:"size:20;column:rg" json:"rg,omitempty"`
	BirthDate time.Time      `gorm:"type:date;not null" json:"birth_date"`
	ZipCode   *string        `gorm:"size:8" json:"zip_code,omitempty"`
	Address   *string        `gorm:"size:255" json:"address,omitempty"`
	District  *string        `gorm:"size:100" json:"district,omitempty"`
	City      *string        `gorm:"size:100" json:"city,omitempty"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales []Sale `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
