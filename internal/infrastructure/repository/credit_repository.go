package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
)

type creditApplicationRepository struct {
	db *gorm.DB
}

// NewCreditApplicationRepository creates a new credit application repository
func NewCreditApplicationRepository(db *gorm.DB) domainRepo.CreditApplicationRepository {
	return &creditApplicationRepository{db: db}
}

func (r *creditApplicationRepository) Create(ctx context.Context, application *entity.CreditApplication) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(application).Error
}

func (r *creditApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditApplication, error) {
	var application entity.CreditApplication
	err := r.db.WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("Customer").
		First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &application, err
}

func (r *creditApplicationRepository) Update(ctx context.Context, application *entity.CreditApplication) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(application).Error
}

func (r *creditApplicationRepository) GetLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*entity.CreditApplication, error) {
	var application entity.CreditApplication
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&application).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &application, err
}

func (r *creditApplicationRepository) List(ctx context.Context, params *domainRepo.CreditApplicationFilterParams) ([]entity.CreditApplication, int64, error) {
	var applications []entity.CreditApplication
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CreditApplication{}).Scopes(StoreScope(ctx))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&applications).Error

	return applications, total, err
}
