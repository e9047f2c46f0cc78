package request

import "github.com/shopspring/decimal"

// OpenRegisterRequest represents a cash register opening request.
// Day defaults to today when omitted.
type OpenRegisterRequest struct {
	Day *string `json:"day"`
}

// CashMovementRequest represents a manual credit or debit on an open register
type CashMovementRequest struct {
	Kind   int             `json:"kind" binding:"min=0,max=1"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required,min=3"`
}
