package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineRequest represents one line of a sale
type SaleLineRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	SerialNumber *string         `json:"serial_number"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	Discount     decimal.Decimal `json:"discount"`
}

// SalePaymentRequest represents one payment leg of a sale
type SalePaymentRequest struct {
	MethodID         uuid.UUID       `json:"method_id" binding:"required"`
	Total            decimal.Decimal `json:"total" binding:"required"`
	InstallmentCount int             `json:"installment_count" binding:"omitempty,min=1,max=24"`
	AnchorDay        int             `json:"anchor_day" binding:"omitempty,oneof=1 10 20"`
	DiscountPct      decimal.Decimal `json:"discount_pct"`
}

// CreateSaleRequest represents a sale creation request
type CreateSaleRequest struct {
	CustomerID uuid.UUID            `json:"customer_id" binding:"required"`
	SaleDate   *string              `json:"sale_date"`
	Note       *string              `json:"note"`
	Lines      []SaleLineRequest    `json:"lines" binding:"required,min=1,dive"`
	Payments   []SalePaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

// UpdateSaleRequest represents a sale update request. Lines replace the
// existing ones wholesale; payment legs are edited through the payment
// endpoints.
type UpdateSaleRequest struct {
	Note  *string           `json:"note"`
	Lines []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CancelSaleRequest represents a sale cancellation request
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=3"`
}

// ExchangeSaleRequest represents a product exchange on an existing sale
type ExchangeSaleRequest struct {
	LineID          uuid.UUID `json:"line_id" binding:"required"`
	NewProductID    uuid.UUID `json:"new_product_id" binding:"required"`
	NewSerialNumber *string   `json:"new_serial_number"`
	Reason          string    `json:"reason" binding:"required,min=3"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	CustomerID      string `form:"customer_id"`
	SellerID        string `form:"seller_id"`
	From            string `form:"from"`
	To              string `form:"to"`
	IncludeCanceled bool   `form:"include_canceled"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
	Limit           int    `form:"limit"`
	Cursor          string `form:"cursor"`
}
