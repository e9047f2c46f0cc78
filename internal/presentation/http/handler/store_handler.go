package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/application/service"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/request"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// StoreHandler handles store management HTTP requests
type StoreHandler struct {
	storeService *service.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create handles creating a store. The authenticated user becomes the owner.
func (h *StoreHandler) Create(c *gin.Context) {
	ownerID := GetUserID(c)
	if ownerID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req request.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	store, err := h.storeService.CreateStore(c.Request.Context(), &service.CreateStoreInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *ownerID,
		CNPJ:    req.CNPJ,
		Phone:   req.Phone,
		Address: req.Address,
		PixKey:  req.PixKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Store created successfully", store)
}

// Get handles getting a single store
func (h *StoreHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	store, err := h.storeService.GetStore(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store retrieved successfully", store)
}

// Update handles updating a store
func (h *StoreHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	var req request.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateStoreInput{
		ID:             id,
		Name:           req.Name,
		CNPJ:           req.CNPJ,
		Phone:          req.Phone,
		Address:        req.Address,
		PixKey:         req.PixKey,
		DailySalesGoal: req.DailySalesGoal,
	}
	if req.Settings != nil {
		// Settings are merged over the store's current values
		current, err := h.storeService.GetStore(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		settings := current.Settings
		if req.Settings.SettlementDiscountPct4 != nil {
			settings.SettlementDiscountPct4 = *req.Settings.SettlementDiscountPct4
		}
		if req.Settings.SettlementDiscountPct6 != nil {
			settings.SettlementDiscountPct6 = *req.Settings.SettlementDiscountPct6
		}
		if req.Settings.SettlementDiscountPct8 != nil {
			settings.SettlementDiscountPct8 = *req.Settings.SettlementDiscountPct8
		}
		if req.Settings.WarrantyMessage != nil {
			settings.WarrantyMessage = *req.Settings.WarrantyMessage
		}
		if req.Settings.EmailNotifications != nil {
			settings.EmailNotifications = *req.Settings.EmailNotifications
		}
		if req.Settings.NotifyEmail != nil {
			settings.NotifyEmail = *req.Settings.NotifyEmail
		}
		input.Settings = &settings
	}

	store, err := h.storeService.UpdateStore(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store updated successfully", store)
}

// ListMine handles listing the stores the authenticated user belongs to
func (h *StoreHandler) ListMine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.storeService.GetUserStores(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stores retrieved successfully", result)
}

// ListAll handles listing every store. Super admin only.
func (h *StoreHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.storeService.ListAllStores(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stores retrieved successfully", result)
}

// InviteMember handles adding a user to a store
func (h *StoreHandler) InviteMember(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	var req request.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.storeService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		StoreID: storeID,
		UserID:  req.UserID,
		Role:    req.Role,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member added successfully", nil)
}

// RemoveMember handles removing a user from a store
func (h *StoreHandler) RemoveMember(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.storeService.RemoveMember(c.Request.Context(), storeID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetMembers handles listing a store's members
func (h *StoreHandler) GetMembers(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	members, err := h.storeService.GetStoreMembers(c.Request.Context(), storeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// UpdateMemberRole handles changing a member's store role
func (h *StoreHandler) UpdateMemberRole(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req request.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.storeService.UpdateMemberRole(c.Request.Context(), storeID, userID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}

// AssignUser handles assigning a user to a store. Super admin only.
func (h *StoreHandler) AssignUser(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	var req request.InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.storeService.AssignUserToStore(c.Request.Context(), &service.AssignUserToStoreInput{
		StoreID: storeID,
		UserID:  req.UserID,
		Role:    req.Role,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "User assigned successfully", nil)
}
