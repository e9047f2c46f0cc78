package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) domainRepo.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(store).Error
}

func (r *storeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &store, err
}

func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).First(&store, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &store, err
}

func (r *storeRepository) Update(ctx context.Context, store *entity.Store) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(store).Error
}

func (r *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Store{}, "id = ?", id).Error
}

func (r *storeRepository) GetUserStores(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Store, int64, error) {
	var stores []entity.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Store{}).
		Joins("JOIN store_memberships ON store_memberships.store_id = stores.id").
		Where("store_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("stores.created_at DESC").
		Find(&stores).Error

	return stores, total, err
}

func (r *storeRepository) AddMember(ctx context.Context, membership *entity.StoreMembership) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(membership).Error
}

func (r *storeRepository) RemoveMember(ctx context.Context, storeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.StoreMembership{}, "store_id = ? AND user_id = ?", storeID, userID).Error
}

func (r *storeRepository) GetMembers(ctx context.Context, storeID uuid.UUID) ([]entity.StoreMembership, error) {
	var members []entity.StoreMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("store_id = ?", storeID).
		Find(&members).Error
	return members, err
}

func (r *storeRepository) IsMember(ctx context.Context, storeID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.StoreMembership{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *storeRepository) GetMembership(ctx context.Context, storeID, userID uuid.UUID) (*entity.StoreMembership, error) {
	var membership entity.StoreMembership
	err := r.db.WithContext(ctx).
		First(&membership, "store_id = ? AND user_id = ?", storeID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *storeRepository) UpdateMemberRole(ctx context.Context, storeID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&entity.StoreMembership{}).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Update("role", role).Error
}

func (r *storeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Store{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *storeRepository) ListAll(ctx context.Context, params *pagination.PaginationParams) ([]entity.Store, int64, error) {
	var stores []entity.Store
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Store{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&stores).Error

	return stores, total, err
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Store{}).Count(&count).Error
	return count, err
}
