package request

import "github.com/google/uuid"

// LookupRequest identifies a customer on the public consultation
// endpoint. BirthDate is a calendar date in YYYY-MM-DD form.
type LookupRequest struct {
	CPF       string `json:"cpf" binding:"required"`
	BirthDate string `json:"birth_date" binding:"required"`
}

// SelfReportRequest reports a single installment as paid
type SelfReportRequest struct {
	CPF           string    `json:"cpf" binding:"required"`
	BirthDate     string    `json:"birth_date" binding:"required"`
	InstallmentID uuid.UUID `json:"installment_id" binding:"required"`
}

// SelfReportAllRequest reports every open installment of one payment
type SelfReportAllRequest struct {
	CPF       string    `json:"cpf" binding:"required"`
	BirthDate string    `json:"birth_date" binding:"required"`
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
}
