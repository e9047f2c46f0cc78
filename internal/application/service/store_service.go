package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

// StoreService handles store-related operations
type StoreService struct {
	storeRepo repository.StoreRepository
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// CreateStoreInput represents input for creating a store
type CreateStoreInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	CNPJ     *string
	Phone    *string
	Address  *string
	PixKey   *string
	Settings *entity.StoreSettings
}

// CreateStore creates a new store
func (s *StoreService) CreateStore(ctx context.Context, input *CreateStoreInput) (*entity.Store, error) {
	// Check if slug already exists
	existing, err := s.storeRepo.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Store slug already exists")
	}

	settings := entity.DefaultStoreSettings()
	if input.Settings != nil {
		settings = *input.Settings
	}

	store := &entity.Store{
		Name:     input.Name,
		Slug:     input.Slug,
		OwnerID:  input.OwnerID,
		CNPJ:     input.CNPJ,
		Phone:    input.Phone,
		Address:  input.Address,
		PixKey:   input.PixKey,
		Settings: settings,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	// Add owner as member
	membership := &entity.StoreMembership{
		StoreID: store.ID,
		UserID:  input.OwnerID,
		Role:    "owner",
	}
	_ = s.storeRepo.AddMember(ctx, membership)

	return store, nil
}

// GetStore retrieves a store by ID
func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.ErrNotFound
	}
	return store, nil
}

// GetUserStores retrieves all stores a user belongs to
func (s *StoreService) GetUserStores(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Store], error) {
	stores, total, err := s.storeRepo.GetUserStores(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(stores, pag), nil
}

// UpdateStoreInput represents input for updating a store
type UpdateStoreInput struct {
	ID             uuid.UUID
	Name           string
	CNPJ           *string
	Phone          *string
	Address        *string
	PixKey         *string
	DailySalesGoal *decimal.Decimal
	Settings       *entity.StoreSettings
}

// UpdateStore updates a store
func (s *StoreService) UpdateStore(ctx context.Context, input *UpdateStoreInput) (*entity.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.ErrNotFound
	}

	if input.Name != "" {
		store.Name = input.Name
	}
	if input.CNPJ != nil {
		store.CNPJ = input.CNPJ
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Address != nil {
		store.Address = input.Address
	}
	if input.PixKey != nil {
		store.PixKey = input.PixKey
	}
	if input.DailySalesGoal != nil {
		store.DailySalesGoal = *input.DailySalesGoal
	}
	if input.Settings != nil {
		store.Settings = *input.Settings
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

// InviteMemberInput represents input for inviting a user to a store
type InviteMemberInput struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	Role    string
}

// InviteMember adds a user to a store
func (s *StoreService) InviteMember(ctx context.Context, input *InviteMemberInput) error {
	// Check if user is already a member
	isMember, _ := s.storeRepo.IsMember(ctx, input.StoreID, input.UserID)
	if isMember {
		return apperror.NewConflictError("User is already a member of this store")
	}

	membership := &entity.StoreMembership{
		StoreID: input.StoreID,
		UserID:  input.UserID,
		Role:    input.Role,
	}

	return s.storeRepo.AddMember(ctx, membership)
}

// RemoveMember removes a user from a store
func (s *StoreService) RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error {
	return s.storeRepo.RemoveMember(ctx, storeID, userID)
}

// GetStoreMembers retrieves all members of a store
func (s *StoreService) GetStoreMembers(ctx context.Context, storeID uuid.UUID) ([]entity.StoreMembership, error) {
	members, err := s.storeRepo.GetMembers(ctx, storeID)
	if err != nil {
		return nil, err
	}

	// Populate user details for JSON response
	for i := range members {
		members[i].PopulateUserDetails()
	}

	return members, nil
}

// UpdateMemberRole updates a member's role in a store
func (s *StoreService) UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error {
	return s.storeRepo.UpdateMemberRole(ctx, storeID, userID, role)
}

// ListAllStores retrieves all stores (for super admin use)
func (s *StoreService) ListAllStores(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Store], error) {
	stores, total, err := s.storeRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(stores, pag), nil
}

// AssignUserToStoreInput represents input for assigning a user to a store
type AssignUserToStoreInput struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	Role    string
}

// AssignUserToStore assigns a user to a store (for super admin use)
func (s *StoreService) AssignUserToStore(ctx context.Context, input *AssignUserToStoreInput) error {
	// Check if store exists
	store, err := s.storeRepo.GetByID(ctx, input.StoreID)
	if err != nil {
		return err
	}
	if store == nil {
		return apperror.ErrNotFound
	}

	// Check if user is already a member
	isMember, _ := s.storeRepo.IsMember(ctx, input.StoreID, input.UserID)
	if isMember {
		return apperror.NewConflictError("User is already a member of this store")
	}

	// Default role to seller if not specified
	role := input.Role
	if role == "" {
		role = "seller"
	}

	membership := &entity.StoreMembership{
		StoreID: input.StoreID,
		UserID:  input.UserID,
		Role:    role,
	}

	return s.storeRepo.AddMember(ctx, membership)
}
