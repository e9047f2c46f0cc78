package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
	"github.com/credfacil/backoffice-api/pkg/pagination"
)

type cashRegisterRepository struct {
	db *gorm.DB
}

// NewCashRegisterRepository creates a new cash register repository
func NewCashRegisterRepository(db *gorm.DB) domainRepo.CashRegisterRepository {
	return &cashRegisterRepository{db: db}
}

func (r *cashRegisterRepository) Create(ctx context.Context, register *entity.CashRegister) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(register).Error
}

func (r *cashRegisterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashRegister, error) {
	var register entity.CashRegister
	err := r.db.WithContext(ctx).First(&register, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *cashRegisterRepository) GetOpenForDay(ctx context.Context, storeID uuid.UUID, day time.Time) (*entity.CashRegister, error) {
	var register entity.CashRegister
	err := dbFrom(ctx, r.db).WithContext(ctx).
		First(&register, "store_id = ? AND opened_on = ? AND closed_on IS NULL",
			storeID, day.Format("2006-01-02")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *cashRegisterRepository) Update(ctx context.Context, register *entity.CashRegister) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(register).Error
}

func (r *cashRegisterRepository) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.CashRegister, int64, error) {
	var registers []entity.CashRegister
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashRegister{}).
		Where("store_id = ?", storeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_on DESC").
		Find(&registers).Error

	return registers, total, err
}

type cashMovementRepository struct {
	db *gorm.DB
}

// NewCashMovementRepository creates a new cash movement repository
func NewCashMovementRepository(db *gorm.DB) domainRepo.CashMovementRepository {
	return &cashMovementRepository{db: db}
}

func (r *cashMovementRepository) Create(ctx context.Context, movement *entity.CashMovement) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(movement).Error
}

func (r *cashMovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashMovement, error) {
	var movement entity.CashMovement
	err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &movement, err
}

func (r *cashMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.CashMovement{}, "id = ?", id).Error
}

func (r *cashMovementRepository) ListByRegister(ctx context.Context, registerID uuid.UUID) ([]entity.CashMovement, error) {
	var movements []entity.CashMovement
	err := r.db.WithContext(ctx).
		Where("register_id = ?", registerID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}
