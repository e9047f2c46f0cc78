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

type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) domainRepo.InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) CreateBatch(ctx context.Context, installments []entity.Installment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(&installments).Error
}

func (r *installmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Installment, error) {
	var installment entity.Installment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Payment").
		First(&installment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &installment, err
}

func (r *installmentRepository) Update(ctx context.Context, installment *entity.Installment) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(installment).Error
}

func (r *installmentRepository) ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]entity.Installment, error) {
	var installments []entity.Installment
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Delete(&entity.Installment{}, "payment_id = ?", paymentID).Error
}

func (r *installmentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Installment, error) {
	var installments []entity.Installment
	err := r.db.WithContext(ctx).
		Joins("JOIN payments ON payments.id = installments.payment_id").
		Joins("JOIN sales ON sales.id = payments.sale_id").
		Where("sales.customer_id = ? AND sales.canceled = ? AND payments.deactivated = ?",
			customerID, false, false).
		Order("installments.due_date ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepository) ListDue(ctx context.Context, storeID uuid.UUID, until time.Time, params *pagination.PaginationParams) ([]entity.Installment, int64, error) {
	var installments []entity.Installment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Installment{}).
		Joins("JOIN payments ON payments.id = installments.payment_id").
		Joins("JOIN sales ON sales.id = payments.sale_id").
		Where("installments.store_id = ?", storeID).
		Where("installments.confirmed_paid = ?", false).
		Where("installments.due_date <= ?", until.Format("2006-01-02")).
		Where("sales.canceled = ? AND payments.deactivated = ?", false, false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Payment.Sale.Customer").
		Order("installments.due_date ASC").
		Find(&installments).Error

	return installments, total, err
}

func (r *installmentRepository) ListAwaitingConfirmation(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Installment, int64, error) {
	var installments []entity.Installment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Installment{}).
		Where("store_id = ? AND self_reported = ? AND confirmed_paid = ?", storeID, true, false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Payment.Sale.Customer").
		Order("self_reported_at ASC").
		Find(&installments).Error

	return installments, total, err
}
