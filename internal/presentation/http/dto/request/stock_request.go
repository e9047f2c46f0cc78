package request

import "github.com/google/uuid"

// AddStockRequest represents a bulk stock entry for a product
type AddStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// RegisterSerialUnitsRequest represents registering serialized units
// (phones) into stock
type RegisterSerialUnitsRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Serials   []string  `json:"serials" binding:"required,min=1,dive,min=4"`
}

// StockFilterRequest represents stock listing parameters
type StockFilterRequest struct {
	ProductID string `form:"product_id"`
	SoldOnly  bool   `form:"sold_only"`
	InStock   bool   `form:"in_stock"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
