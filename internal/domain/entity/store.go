package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store represents one retail store. Every sale, payment, stock record and
// register session belongs to exactly one store; store context is threaded
// through requests explicitly, never read from global state.
type Store struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Slug           string          `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	CNPJ           *string         `gorm:"size:14;column:cnpj" json:"cnpj,omitempty"`
	Phone          *string         `gorm:"size:20" json:"phone,omitempty"`
	Address        *string         `gorm:"size:255" json:"address,omitempty"`
	PixKey         *string         `gorm:"size:100" json:"pix_key,omitempty"`
	DailySalesGoal decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"daily_sales_goal"`
	Settings       StoreSettings   `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Owner   User              `gorm:"foreignKey:OwnerID" json:"-"`
	Members []StoreMembership `gorm:"foreignKey:StoreID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// SettlementDiscountPct returns the early-payoff discount percentage the
// store grants for a financing plan with the given installment count.
// Unknown plans settle without discount.
func (s *Store) SettlementDiscountPct(installmentCount int) decimal.Decimal {
	switch installmentCount {
	case 4:
		return s.Settings.SettlementDiscountPct4
	case 6:
		return s.Settings.SettlementDiscountPct6
	case 8:
		return s.Settings.SettlementDiscountPct8
	}
	return decimal.Zero
}

// StoreSettings holds per-store configuration
type StoreSettings struct {
	// Early payoff discount percentages by financing plan
	SettlementDiscountPct4 decimal.Decimal `json:"settlement_discount_pct_4"`
	SettlementDiscountPct6 decimal.Decimal `json:"settlement_discount_pct_6"`
	SettlementDiscountPct8 decimal.Decimal `json:"settlement_discount_pct_8"`

	// Contract boilerplate rendered on financing paperwork
	WarrantyMessage string          `json:"warranty_message,omitempty"`
	ContractTerms   json.RawMessage `json:"contract_terms,omitempty"`

	// Notification settings
	EmailNotifications bool   `json:"email_notifications,omitempty"`
	NotifyEmail        string `json:"notify_email,omitempty"`
}

// Scan implements the sql.Scanner interface for StoreSettings
func (ss *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		*ss = StoreSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StoreSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for StoreSettings
func (ss StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(ss)
}

// DefaultStoreSettings returns default settings for new stores
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		SettlementDiscountPct4: decimal.NewFromInt(10),
		SettlementDiscountPct6: decimal.NewFromInt(15),
		SettlementDiscountPct8: decimal.NewFromInt(20),
		EmailNotifications:     true,
	}
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// StoreMembership represents a user's membership in a store
type StoreMembership struct {
	StoreID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"store_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'seller'" json:"role"` // owner, manager, seller
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Store Store `gorm:"foreignKey:StoreID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (sm *StoreMembership) PopulateUserDetails() {
	if sm.User.ID != uuid.Nil {
		sm.MemberUser = &MemberUser{
			ID:        sm.User.ID,
			FirstName: sm.User.FirstName,
			LastName:  sm.User.LastName,
			Email:     sm.User.Email,
		}
	}
}

// TableName returns the table name for the StoreMembership model
func (StoreMembership) TableName() string {
	return "store_memberships"
}
