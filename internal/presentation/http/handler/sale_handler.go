package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles creating a sale. The authenticated user is recorded as
// the seller.
func (h *SaleHandler) Create(c *gin.Context) {
	sellerID := GetUserID(c)
	if sellerID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	saleDate := time.Now().UTC()
	if req.SaleDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.SaleDate)
		if err != nil {
			response.BadRequest(c, "Invalid sale date, expected YYYY-MM-DD")
			return
		}
		saleDate = parsed
	}

	input := &service.CreateSaleInput{
		SellerID:   *sellerID,
		CustomerID: req.CustomerID,
		SaleDate:   saleDate,
		Note:       req.Note,
		Lines:      make([]service.SaleLineInput, 0, len(req.Lines)),
		Payments:   make([]service.SalePaymentInput, 0, len(req.Payments)),
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.SaleLineInput{
			ProductID:    line.ProductID,
			SerialNumber: line.SerialNumber,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			Discount:     line.Discount,
		})
	}
	for _, payment := range req.Payments {
		input.Payments = append(input.Payments, service.SalePaymentInput{
			MethodID:         payment.MethodID,
			Total:            payment.Total,
			InstallmentCount: payment.InstallmentCount,
			AnchorDay:        payment.AnchorDay,
			DiscountPct:      payment.DiscountPct,
		})
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	customerID, err := parseOptionalUUID(filter.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}
	sellerID, err := parseOptionalUUID(filter.SellerID)
	if err != nil {
		response.BadRequest(c, "Invalid seller ID")
		return
	}
	startDate, err := parseOptionalDate(filter.From)
	if err != nil {
		response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	endDate, err := parseOptionalDate(filter.To)
	if err != nil {
		response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	// Check if cursor-based pagination is requested
	if filter.Cursor != "" || filter.Limit > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = 15
		}
		params := &repository.SaleCursorFilterParams{
			Cursor: &pagination.CursorParams{
				Cursor:    filter.Cursor,
				Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
				Limit:     limit,
			},
			Search:          c.Query("search"),
			CustomerID:      customerID,
			SellerID:        sellerID,
			StartDate:       startDate,
			EndDate:         endDate,
			IncludeCanceled: filter.IncludeCanceled,
		}

		result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), params)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, 200, "Sales retrieved successfully", result)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 15
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:          c.Query("search"),
		CustomerID:      customerID,
		SellerID:        sellerID,
		StartDate:       startDate,
		EndDate:         endDate,
		IncludeCanceled: filter.IncludeCanceled,
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Update handles editing a sale's lines and note
func (h *SaleHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateSaleInput{
		Note:  req.Note,
		Lines: make([]service.SaleLineInput, 0, len(req.Lines)),
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, service.SaleLineInput{
			ProductID:    line.ProductID,
			SerialNumber: line.SerialNumber,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			Discount:     line.Discount,
		})
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Cancel handles canceling a sale. Stock is not restored.
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.saleService.CancelSale(c.Request.Context(), id, req.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale canceled successfully", nil)
}

// Exchange handles swapping a sold product for another one
func (h *SaleHandler) Exchange(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.ExchangeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.ExchangeSale(c.Request.Context(), id, req.LineID, req.NewProductID, req.NewSerialNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale exchanged successfully", sale)
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
