package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	// Create creates a new store
	Create(ctx context.Context, store *entity.Store) error

	// GetByID retrieves a store by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// GetBySlug retrieves a store by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)

	// Update updates an existing store
	Update(ctx context.Context, store *entity.Store) error

	// Delete soft-deletes a store
	Delete(ctx context.Context, id uuid.UUID) error

	// GetUserStores retrieves all stores a user belongs to with pagination
	GetUserStores(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Store, int64, error)

	// AddMember adds a user as a member of a store
	AddMember(ctx context.Context, membership *entity.StoreMembership) error

	// RemoveMember removes a user from a store
	RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error

	// GetMembers retrieves all members of a store
	GetMembers(ctx context.Context, storeID uuid.UUID) ([]entity.StoreMembership, error)

	// IsMember checks if a user is a member of a store
	IsMember(ctx context.Context, storeID, userID uuid.UUID) (bool, error)

	// GetMembership retrieves a specific membership
	GetMembership(ctx context.Context, storeID, userID uuid.UUID) (*entity.StoreMembership, error)

	// UpdateMemberRole updates a member's role in a store
	UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ListAll retrieves all stores (for super admin use)
	ListAll(ctx context.Context, params *pagination.PaginationParams) ([]entity.Store, int64, error)

	// Count returns the total number of stores
	Count(ctx context.Context) (int64, error)
}
