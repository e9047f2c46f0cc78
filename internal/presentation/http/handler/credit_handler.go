package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// CreditHandler handles financing application HTTP requests
type CreditHandler struct {
	creditService *service.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// Apply handles opening a financing application for a customer
func (h *CreditHandler) Apply(c *gin.Context) {
	var req request.CreditApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	application, err := h.creditService.Apply(c.Request.Context(), req.CustomerID, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Application created successfully", application)
}

// Review handles approving, rejecting or canceling an application
func (h *CreditHandler) Review(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}

	reviewerID := GetUserID(c)
	if reviewerID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CreditReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, ok := creditStatusFromString(req.Status)
	if !ok {
		response.BadRequest(c, "Invalid status")
		return
	}

	application, err := h.creditService.Review(c.Request.Context(), id, *reviewerID, status, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Application reviewed successfully", application)
}

// Convert handles turning an approved application into a financed sale
func (h *CreditHandler) Convert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}

	sellerID := GetUserID(c)
	if sellerID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CreditConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.creditService.Convert(c.Request.Context(), id, &service.ConvertInput{
		SellerID:         *sellerID,
		ProductID:        req.ProductID,
		SerialNumber:     req.SerialNumber,
		InstallmentCount: req.InstallmentCount,
		AnchorDay:        req.AnchorDay,
		DownMethodID:     req.DownMethodID,
		FinanceMethodID:  req.FinanceMethodID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Application converted successfully", sale)
}

// Get handles getting a single application
func (h *CreditHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}

	application, err := h.creditService.GetApplication(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Application retrieved successfully", application)
}

// List handles listing applications
func (h *CreditHandler) List(c *gin.Context) {
	var filter request.CreditFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 15
	}

	params := &repository.CreditApplicationFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}
	if filter.Status != "" {
		status, ok := creditStatusFromString(filter.Status)
		if !ok {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	result, err := h.creditService.ListApplications(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Applications retrieved successfully", result)
}

func creditStatusFromString(status string) (enum.CreditStatus, bool) {
	switch status {
	case "under_review":
		return enum.CreditStatusUnderReview, true
	case "approved":
		return enum.CreditStatusApproved, true
	case "rejected":
		return enum.CreditStatusRejected, true
	case "canceled":
		return enum.CreditStatusCanceled, true
	default:
		return enum.CreditStatusUnderReview, false
	}
}
