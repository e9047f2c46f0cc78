package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// StockHandler handles stock and serial unit HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// AddStock handles adding unserialized stock for a product
func (h *StockHandler) AddStock(c *gin.Context) {
	var req request.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.stockService.AddStock(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock added successfully", nil)
}

// RegisterSerials handles registering serialized units into stock
func (h *StockHandler) RegisterSerials(c *gin.Context) {
	var req request.RegisterSerialUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	units, err := h.stockService.RegisterSerialUnits(c.Request.Context(), req.ProductID, req.Serials)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Serial units registered successfully", units)
}

// GetAvailability handles getting a product's stock record
func (h *StockHandler) GetAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	record, err := h.stockService.GetAvailability(c.Request.Context(), productID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock availability retrieved successfully", record)
}

// ListStock handles listing stock records for the current store
func (h *StockHandler) ListStock(c *gin.Context) {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.stockService.ListStock(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stock retrieved successfully", result)
}

// ListSerialUnits handles listing serialized units
func (h *StockHandler) ListSerialUnits(c *gin.Context) {
	var filter request.StockFilterRequest
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

	params := &repository.SerialUnitFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:   c.Query("search"),
		SoldOnly: filter.SoldOnly,
		InStock:  filter.InStock,
	}
	if filter.ProductID != "" {
		productID, err := uuid.Parse(filter.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		params.ProductID = &productID
	}

	result, err := h.stockService.ListSerialUnits(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Serial units retrieved successfully", result)
}
