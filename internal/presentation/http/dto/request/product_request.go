package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required,min=2,max=255"`
	Code           string          `json:"code" binding:"omitempty,max=100"`
	RequiresSerial bool            `json:"requires_serial"`
	CashPrice      decimal.Decimal `json:"cash_price" binding:"required"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	Plan4Price     decimal.Decimal `json:"plan_4_price"`
	Plan6Price     decimal.Decimal `json:"plan_6_price"`
	Plan8Price     decimal.Decimal `json:"plan_8_price"`
	DealerShare    decimal.Decimal `json:"dealer_share"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Code           *string          `json:"code" binding:"omitempty,min=1,max=100"`
	RequiresSerial *bool            `json:"requires_serial"`
	CashPrice      *decimal.Decimal `json:"cash_price"`
	DownPayment    *decimal.Decimal `json:"down_payment"`
	Plan4Price     *decimal.Decimal `json:"plan_4_price"`
	Plan6Price     *decimal.Decimal `json:"plan_6_price"`
	Plan8Price     *decimal.Decimal `json:"plan_8_price"`
	DealerShare    *decimal.Decimal `json:"dealer_share"`
	Active         *bool            `json:"active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search         string `form:"search"`
	RequiresSerial *bool  `form:"requires_serial"`
	ActiveOnly     bool   `form:"active_only"`
	SortBy         string `form:"sort_by"`
	SortOrder      string `form:"sort_order"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
	Limit          int    `form:"limit"` // For cursor-based pagination
}
