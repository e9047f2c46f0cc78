package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/enum"
)

// CreditApplication is a customer's request for financing at a store. It
// starts under review and is resolved to approved or rejected by a
// manager; an approved application is what authorizes financed sales.
type CreditApplication struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	StoreID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status     enum.CreditStatus `gorm:"default:0;index" json:"status"`
	Note       *string           `gorm:"type:text" json:"note,omitempty"`
	ReviewedBy *uuid.UUID        `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	// Relationships
	Store    Store    `gorm:"foreignKey:StoreID" json:"-"`
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Reviewer *User    `gorm:"foreignKey:ReviewedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new credit application
func (a *CreditApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CreditApplication model
func (CreditApplication) TableName() string {
	return "credit_applications"
}

// Resolved reports whether the application reached a terminal decision
func (a *CreditApplication) Resolved() bool {
	return a.Status == enum.CreditStatusApproved || a.Status == enum.CreditStatusRejected || a.Status == enum.CreditStatusCanceled
}
