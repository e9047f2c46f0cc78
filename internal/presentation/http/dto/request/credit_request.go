package request

import "github.com/google/uuid"

// CreditApplyRequest represents a financing application request
type CreditApplyRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Note       *string   `json:"note"`
}

// CreditReviewRequest represents a review decision on an application
type CreditReviewRequest struct {
	Status string  `json:"status" binding:"required,oneof=approved rejected canceled"`
	Note   *string `json:"note"`
}

// CreditConvertRequest represents converting an approved application
// into a financed sale
type CreditConvertRequest struct {
	ProductID        uuid.UUID `json:"product_id" binding:"required"`
	SerialNumber     *string   `json:"serial_number"`
	InstallmentCount int       `json:"installment_count" binding:"required,oneof=4 6 8"`
	AnchorDay        int       `json:"anchor_day" binding:"omitempty,oneof=1 10 20"`
	DownMethodID     uuid.UUID `json:"down_method_id"`
	FinanceMethodID  uuid.UUID `json:"finance_method_id" binding:"required"`
}

// CreditFilterRequest represents credit application filter parameters
type CreditFilterRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
