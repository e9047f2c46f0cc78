package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment and settlement HTTP requests
type PaymentHandler struct {
	paymentService    *service.PaymentService
	settlementService *service.SettlementService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService, settlementService *service.SettlementService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:    paymentService,
		settlementService: settlementService,
	}
}

// Get handles getting a single payment with its installments
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Update handles updating a payment. Core term changes rebuild the
// installment book.
func (h *PaymentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdatePaymentInput{
		MethodID:         req.MethodID,
		Total:            req.Total,
		InstallmentCount: req.InstallmentCount,
		Blocked:          req.Blocked,
		Deactivated:      req.Deactivated,
	}
	if req.FirstDueDate != nil {
		firstDue, err := time.Parse("2006-01-02", *req.FirstDueDate)
		if err != nil {
			response.BadRequest(c, "Invalid first due date, expected YYYY-MM-DD")
			return
		}
		input.FirstDueDate = &firstDue
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// SetBlocked handles blocking or unblocking a payment
func (h *PaymentHandler) SetBlocked(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.paymentService.SetBlocked(c.Request.Context(), id, req.Blocked)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// QuoteSettlement handles quoting an early settlement without applying it
func (h *PaymentHandler) QuoteSettlement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	quote, err := h.settlementService.Quote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement quote retrieved successfully", quote)
}

// Settle handles settling a payment's open installments at the store's
// discount for the plan
func (h *PaymentHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	quote, err := h.settlementService.Settle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment settled successfully", quote)
}

// ListMethods handles listing payment methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.paymentService.ListMethods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment methods retrieved successfully", methods)
}

// CreateMethod handles creating a payment method
func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	var req request.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := h.paymentService.CreateMethod(c.Request.Context(), &service.CreateMethodInput{
		Name:                 req.Name,
		CountsInRegister:     req.CountsInRegister,
		SupportsInstallments: req.SupportsInstallments,
		Financing:            req.Financing,
		OffBooks:             req.OffBooks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment method created successfully", method)
}
