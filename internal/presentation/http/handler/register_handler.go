package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/domain/enum"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// RegisterHandler handles cash register HTTP requests
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// Open handles opening the register for a business day
func (h *RegisterHandler) Open(c *gin.Context) {
	var req request.OpenRegisterRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	day := time.Now().UTC()
	if req.Day != nil {
		parsed, err := time.Parse("2006-01-02", *req.Day)
		if err != nil {
			response.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	register, err := h.registerService.Open(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Register opened successfully", register)
}

// Close handles closing an open register
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid register ID")
		return
	}

	register, err := h.registerService.Close(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register closed successfully", register)
}

// AddMovement handles adding a manual cash movement to an open register
func (h *RegisterHandler) AddMovement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid register ID")
		return
	}

	var req request.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	movement, err := h.registerService.AddMovement(c.Request.Context(), id, enum.CashMovementType(req.Kind), req.Reason, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded successfully", movement)
}

// Summary handles getting the day's totals for a register
func (h *RegisterHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid register ID")
		return
	}

	summary, err := h.registerService.Summary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register summary retrieved successfully", summary)
}

// List handles listing registers for the current store
func (h *RegisterHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.registerService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Registers retrieved successfully", result)
}
