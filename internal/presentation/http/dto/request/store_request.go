package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreSettingsRequest represents per-store settings in requests
type StoreSettingsRequest struct {
	SettlementDiscountPct4 *decimal.Decimal `json:"settlement_discount_pct_4"`
	SettlementDiscountPct6 *decimal.Decimal `json:"settlement_discount_pct_6"`
	SettlementDiscountPct8 *decimal.Decimal `json:"settlement_discount_pct_8"`
	WarrantyMessage        *string          `json:"warranty_message"`
	EmailNotifications     *bool            `json:"email_notifications"`
	NotifyEmail            *string          `json:"notify_email" binding:"omitempty,email"`
}

// CreateStoreRequest represents a store creation request
type CreateStoreRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Slug    string  `json:"slug" binding:"required,min=2,max=255"`
	CNPJ    *string `json:"cnpj" binding:"omitempty,len=14"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	PixKey  *string `json:"pix_key"`
}

// UpdateStoreRequest represents a store update request
type UpdateStoreRequest struct {
	Name           string                `json:"name" binding:"omitempty,min=2,max=255"`
	CNPJ           *string               `json:"cnpj" binding:"omitempty,len=14"`
	Phone          *string               `json:"phone"`
	Address        *string               `json:"address"`
	PixKey         *string               `json:"pix_key"`
	DailySalesGoal *decimal.Decimal      `json:"daily_sales_goal"`
	Settings       *StoreSettingsRequest `json:"settings"`
}

// InviteMemberRequest represents adding a user to a store
type InviteMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required,oneof=owner manager seller"`
}

// UpdateMemberRoleRequest represents changing a member's store role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner manager seller"`
}
