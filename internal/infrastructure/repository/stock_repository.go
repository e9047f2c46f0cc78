package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(ctx context.Context, record *entity.StockRecord) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(record).Error
}

func (r *stockRepository) GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.StockRecord, error) {
	var record entity.StockRecord
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&record, "product_id = ? AND store_id = ?", productID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

// GetForUpdate takes a FOR UPDATE row lock so concurrent sales of the
// same product at the same store serialize on the counter.
func (r *stockRepository) GetForUpdate(ctx context.Context, productID, storeID uuid.UUID) (*entity.StockRecord, error) {
	var record entity.StockRecord
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "product_id = ? AND store_id = ?", productID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Decrement checks availability under the row lock before writing, so
// the quantity can never go negative.
func (r *stockRepository) Decrement(ctx context.Context, productID, storeID uuid.UUID, quantity int) error {
	record, err := r.GetForUpdate(ctx, productID, storeID)
	if err != nil {
		return err
	}
	if record.AvailableQuantity < quantity {
		return apperror.ErrInsufficientStock
	}
	return dbFrom(ctx, r.db).WithContext(ctx).
		Model(&entity.StockRecord{}).
		Where("id = ?", record.ID).
		Update("available_quantity", gorm.Expr("available_quantity - ?", quantity)).Error
}

func (r *stockRepository) Increment(ctx context.Context, productID, storeID uuid.UUID, quantity int) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)
	res := db.Model(&entity.StockRecord{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		Update("available_quantity", gorm.Expr("available_quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return db.Create(&entity.StockRecord{
			ProductID:         productID,
			StoreID:           storeID,
			AvailableQuantity: quantity,
		}).Error
	}
	return nil
}

func (r *stockRepository) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.StockRecord, int64, error) {
	var records []entity.StockRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockRecord{}).
		Where("store_id = ?", storeID)
	if search != "" {
		query = query.
			Joins("JOIN products ON products.id = stock_records.product_id").
			Where("products.name ILIKE ? OR products.code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Product").
		Order("stock_records.created_at DESC").
		Find(&records).Error

	return records, total, err
}

type serialUnitRepository struct {
	db *gorm.DB
}

// NewSerialUnitRepository creates a new serial unit repository
func NewSerialUnitRepository(db *gorm.DB) domainRepo.SerialUnitRepository {
	return &serialUnitRepository{db: db}
}

func (r *serialUnitRepository) Create(ctx context.Context, unit *entity.SerialUnit) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(unit).Error
}

func (r *serialUnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SerialUnit, error) {
	var unit entity.SerialUnit
	err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &unit, err
}

// GetAvailableForUpdate locks the unit row so two sales cannot claim the
// same physical phone.
func (r *serialUnitRepository) GetAvailableForUpdate(ctx context.Context, serial string, productID, storeID uuid.UUID) (*entity.SerialUnit, error) {
	var unit entity.SerialUnit
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&unit, "serial_number = ? AND product_id = ? AND store_id = ? AND sold = ? AND canceled = ?",
			serial, productID, storeID, false, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrSerialUnavailable
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *serialUnitRepository) MarkSold(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Model(&entity.SerialUnit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sold":      true,
			"sale_date": gorm.Expr("NOW()"),
		}).Error
}

func (r *serialUnitRepository) Release(ctx context.Context, serial string, productID, storeID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Model(&entity.SerialUnit{}).
		Where("serial_number = ? AND product_id = ? AND store_id = ?", serial, productID, storeID).
		Updates(map[string]interface{}{
			"sold":      false,
			"sale_date": nil,
		}).Error
}

func (r *serialUnitRepository) CountActiveDuplicates(ctx context.Context, serial string, productID, excludeStoreID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&entity.SerialUnit{}).
		Where("serial_number = ? AND product_id = ? AND store_id <> ? AND sold = ? AND canceled = ?",
			serial, productID, excludeStoreID, false, false).
		Count(&count).Error
	return count, err
}

func (r *serialUnitRepository) Update(ctx context.Context, unit *entity.SerialUnit) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(unit).Error
}

func (r *serialUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SerialUnit{}, "id = ?", id).Error
}

func (r *serialUnitRepository) List(ctx context.Context, storeID uuid.UUID, params *domainRepo.SerialUnitFilterParams) ([]entity.SerialUnit, int64, error) {
	var units []entity.SerialUnit
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SerialUnit{}).
		Where("store_id = ?", storeID)

	if params.Search != "" {
		query = query.Where("serial_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}

	if params.SoldOnly {
		query = query.Where("sold = ?", true)
	}

	if params.InStock {
		query = query.Where("sold = ? AND canceled = ?", false, false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Product").
		Order("created_at DESC").
		Find(&units).Error

	return units, total, err
}
