package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/internal/presentation/http/dto/response"
)

// StoreHeader carries the store the request operates on. The store is
// always named explicitly; it is never inferred from the host or from
// the user's first membership.
const StoreHeader = "X-Store-ID"

// StoreMiddleware resolves the store named by the request and performs
// the membership check. This is the only place where store access is
// decided; handlers and services past this point trust the context.
func StoreMiddleware(storeRepo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(StoreHeader)
		if raw == "" {
			raw = c.Query("store_id")
		}
		if raw == "" {
			response.BadRequest(c, "Store ID is required")
			c.Abort()
			return
		}

		storeID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid store ID")
			c.Abort()
			return
		}

		store, err := storeRepo.GetByID(c.Request.Context(), storeID)
		if err != nil || store == nil {
			response.NotFound(c, "Store not found")
			c.Abort()
			return
		}

		userIDVal, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		userID, ok := userIDVal.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		if !isSuperAdmin(c) {
			isMember, err := storeRepo.IsMember(c.Request.Context(), store.ID, userID)
			if err != nil || !isMember {
				response.Forbidden(c, "Access denied to this store")
				c.Abort()
				return
			}
		}

		// Set store in Gin context (for handlers)
		c.Set("store_id", store.ID)
		c.Set("store", store)

		// Also set store ID in request context (for services/repositories)
		ctx := infraRepo.WithStore(c.Request.Context(), store.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireStoreRole ensures the requesting user holds one of the given
// membership roles in the resolved store. Super-admins always pass.
func RequireStoreRole(storeRepo repository.StoreRepository, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSuperAdmin(c) {
			c.Next()
			return
		}

		storeID := GetStoreID(c)
		userIDVal, _ := c.Get("user_id")
		userID, ok := userIDVal.(uuid.UUID)
		if !ok || storeID == uuid.Nil {
			response.Forbidden(c, "Access denied to this store")
			c.Abort()
			return
		}

		membership, err := storeRepo.GetMembership(c.Request.Context(), storeID, userID)
		if err != nil || membership == nil {
			response.Forbidden(c, "Access denied to this store")
			c.Abort()
			return
		}

		for _, role := range roles {
			if membership.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient store role")
		c.Abort()
	}
}

// GetStoreID retrieves the store ID from gin context
func GetStoreID(c *gin.Context) uuid.UUID {
	storeID, exists := c.Get("store_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := storeID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func isSuperAdmin(c *gin.Context) bool {
	rolesVal, exists := c.Get("user_roles")
	if !exists {
		return false
	}
	roles, ok := rolesVal.([]string)
	if !ok {
		return false
	}
	for _, role := range roles {
		if role == "super-admin" {
			return true
		}
	}
	return false
}
