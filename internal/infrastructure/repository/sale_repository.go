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

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(StoreScope(ctx)).
		Preload("Customer").
		Preload("Lines.Product").
		Preload("Payments.Method").
		Preload("Payments.Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installments.number ASC")
		}).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(StoreScope(ctx))

	if !params.IncludeCanceled {
		query = query.Where("canceled = ?", false)
	}

	if params.Search != "" {
		query = query.
			Joins("JOIN customers ON customers.id = sales.customer_id").
			Where("customers.name ILIKE ? OR customers.cpf ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerID != nil {
		query = query.Where("sales.customer_id = ?", *params.CustomerID)
	}

	if params.SellerID != nil {
		query = query.Where("sales.seller_id = ?", *params.SellerID)
	}

	if params.StartDate != nil {
		query = query.Where("sales.sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sales.sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "sales.created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = "sales." + params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Lines.Product").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor returns sales using cursor-based pagination
func (r *saleRepository) ListWithCursor(ctx context.Context, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(StoreScope(ctx))

	if !params.IncludeCanceled {
		query = query.Where("canceled = ?", false)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}

func (r *saleRepository) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Where("register_id = ? AND canceled = ?", registerID, false).
		Preload("Payments.Method").
		Find(&sales).Error
	return sales, err
}

type saleLineRepository struct {
	db *gorm.DB
}

// NewSaleLineRepository creates a new sale line repository
func NewSaleLineRepository(db *gorm.DB) domainRepo.SaleLineRepository {
	return &saleLineRepository{db: db}
}

func (r *saleLineRepository) Create(ctx context.Context, line *entity.SaleLine) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(line).Error
}

func (r *saleLineRepository) CreateBatch(ctx context.Context, lines []entity.SaleLine) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(&lines).Error
}

func (r *saleLineRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLine, error) {
	var lines []entity.SaleLine
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Find(&lines).Error
	return lines, err
}

func (r *saleLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Delete(&entity.SaleLine{}, "id = ?", id).Error
}

func (r *saleLineRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Delete(&entity.SaleLine{}, "sale_id = ?", saleID).Error
}
