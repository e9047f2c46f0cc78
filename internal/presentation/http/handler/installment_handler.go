package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/internal/presentation/http/middleware"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// InstallmentHandler handles installment-related HTTP requests
type InstallmentHandler struct {
	installmentService *service.InstallmentService
}

// NewInstallmentHandler creates a new installment handler
func NewInstallmentHandler(installmentService *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// Get handles getting a single installment
func (h *InstallmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid installment ID")
		return
	}

	installment, err := h.installmentService.GetInstallment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment retrieved successfully", installment)
}

// ListByPayment handles listing the installments of one payment
func (h *InstallmentHandler) ListByPayment(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	installments, err := h.installmentService.ListByPayment(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installments retrieved successfully", installments)
}

// Confirm handles a staff confirmation of an installment payment
func (h *InstallmentHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid installment ID")
		return
	}

	var req request.ConfirmInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentDate := time.Now().UTC()
	if req.PaymentDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			response.BadRequest(c, "Invalid payment date, expected YYYY-MM-DD")
			return
		}
		paymentDate = parsed
	}

	installment, err := h.installmentService.Confirm(c.Request.Context(), id, req.PaidAmount, req.Discount, paymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installment confirmed successfully", installment)
}

// ListDue handles listing installments due up to a date for the current store
func (h *InstallmentHandler) ListDue(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	if storeID == uuid.Nil {
		response.BadRequest(c, "Store context required")
		return
	}

	until := time.Now().UTC()
	if raw := c.Query("until"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(c, "Invalid until date, expected YYYY-MM-DD")
			return
		}
		until = parsed
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.installmentService.ListDue(c.Request.Context(), storeID, until, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Installments retrieved successfully", result)
}

// ListAwaitingConfirmation handles listing self-reported installments
// waiting for staff confirmation
func (h *InstallmentHandler) ListAwaitingConfirmation(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	if storeID == uuid.Nil {
		response.BadRequest(c, "Store context required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.installmentService.ListAwaitingConfirmation(c.Request.Context(), storeID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Installments retrieved successfully", result)
}
