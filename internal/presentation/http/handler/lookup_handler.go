package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
)

// LookupHandler handles the public payment consultation endpoints.
// Callers identify themselves with CPF and birth date only; no session
// is involved.
type LookupHandler struct {
	lookupService *service.LookupService
}

// NewLookupHandler creates a new lookup handler
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// Lookup handles looking up a customer's open payments and installments
func (h *LookupHandler) Lookup(c *gin.Context) {
	var req request.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		response.BadRequest(c, "Invalid birth date, expected YYYY-MM-DD")
		return
	}

	result, err := h.lookupService.Lookup(c.Request.Context(), req.CPF, birthDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", result)
}

// SelfReport handles a customer reporting one installment as paid
func (h *LookupHandler) SelfReport(c *gin.Context) {
	var req request.SelfReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		response.BadRequest(c, "Invalid birth date, expected YYYY-MM-DD")
		return
	}

	installment, err := h.lookupService.SelfReport(c.Request.Context(), req.CPF, birthDate, req.InstallmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment reported successfully", installment)
}

// SelfReportAll handles a customer reporting every open installment of
// one payment as paid
func (h *LookupHandler) SelfReportAll(c *gin.Context) {
	var req request.SelfReportAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		response.BadRequest(c, "Invalid birth date, expected YYYY-MM-DD")
		return
	}

	count, err := h.lookupService.SelfReportAll(c.Request.Context(), req.CPF, birthDate, req.PaymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installments reported successfully", gin.H{"reported": count})
}
