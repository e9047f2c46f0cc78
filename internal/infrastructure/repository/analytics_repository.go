package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainRepo "github.com/credfacil/backoffice-api/internal/domain/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult
	err := r.db.WithContext(ctx).
		Table("sale_lines").
		Select(`products.id as product_id,
			products.name as product_name,
			products.code as product_code,
			SUM(sale_lines.quantity) as quantity_sold,
			SUM(sale_lines.unit_price * sale_lines.quantity - sale_lines.discount) as revenue`).
		Joins("JOIN products ON products.id = sale_lines.product_id").
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Where("sales.store_id = ? AND sales.canceled = ?", storeID, false).
		Group("products.id, products.name, products.code").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) GetTopSellers(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]domainRepo.TopSellerResult, error) {
	var results []domainRepo.TopSellerResult
	err := r.db.WithContext(ctx).
		Table("sales").
		Select(`users.id as seller_id,
			users.first_name as first_name,
			users.last_name as last_name,
			COUNT(sales.id) as sale_count,
			COALESCE(SUM(lines.total), 0) as revenue`).
		Joins("JOIN users ON users.id = sales.seller_id").
		Joins(`JOIN LATERAL (
			SELECT SUM(sale_lines.unit_price * sale_lines.quantity - sale_lines.discount) as total
			FROM sale_lines WHERE sale_lines.sale_id = sales.id
		) lines ON true`).
		Where("sales.store_id = ? AND sales.canceled = ?", storeID, false).
		Where("sales.sale_date >= ? AND sales.sale_date <= ?", start, end).
		Group("users.id, users.first_name, users.last_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, storeID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Table("sales").
		Select(`DATE(sales.sale_date) as date,
			COALESCE(SUM(lines.total), 0) as revenue,
			COUNT(sales.id) as count`).
		Joins(`JOIN LATERAL (
			SELECT SUM(sale_lines.unit_price * sale_lines.quantity - sale_lines.discount) as total
			FROM sale_lines WHERE sale_lines.sale_id = sales.id
		) lines ON true`).
		Where("sales.store_id = ? AND sales.canceled = ? AND sales.sale_date >= ?", storeID, false, since).
		Group("DATE(sales.sale_date)").
		Order("date ASC").
		Scan(&results).Error
	return results, err
}

func (r *analyticsRepository) GetReceivables(ctx context.Context, storeID uuid.UUID, today time.Time) (*domainRepo.ReceivablesResult, error) {
	day := today.Format("2006-01-02")
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Table("installments").
			Joins("JOIN payments ON payments.id = installments.payment_id").
			Joins("JOIN sales ON sales.id = payments.sale_id").
			Where("installments.store_id = ?", storeID).
			Where("installments.confirmed_paid = ?", false).
			Where("sales.canceled = ? AND payments.deactivated = ?", false, false)
	}

	result := &domainRepo.ReceivablesResult{
		Outstanding: decimal.Zero,
		Overdue:     decimal.Zero,
		DueToday:    decimal.Zero,
	}

	var outstanding decimal.NullDecimal
	if err := base().
		Select("SUM(installments.value - installments.paid_amount - installments.discount)").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	if outstanding.Valid {
		result.Outstanding = outstanding.Decimal
	}

	var overdue decimal.NullDecimal
	if err := base().
		Where("installments.due_date < ?", day).
		Select("SUM(installments.value - installments.paid_amount - installments.discount)").
		Scan(&overdue).Error; err != nil {
		return nil, err
	}
	if overdue.Valid {
		result.Overdue = overdue.Decimal
	}

	var dueToday decimal.NullDecimal
	if err := base().
		Where("installments.due_date = ?", day).
		Select("SUM(installments.value - installments.paid_amount - installments.discount)").
		Scan(&dueToday).Error; err != nil {
		return nil, err
	}
	if dueToday.Valid {
		result.DueToday = dueToday.Decimal
	}

	var awaiting int64
	if err := base().
		Where("installments.self_reported = ?", true).
		Count(&awaiting).Error; err != nil {
		return nil, err
	}
	result.Awaiting = int(awaiting)

	return result, nil
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("sale_lines").
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Where("sales.store_id = ? AND sales.canceled = ? AND sales.sale_date >= ?", storeID, false, monthStart).
		Select("SUM(sale_lines.unit_price * sale_lines.quantity - sale_lines.discount)").
		Scan(&revenue).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !revenue.Valid {
		return decimal.Zero, nil
	}
	return revenue.Decimal, nil
}

func (r *analyticsRepository) GetRegisterBalance(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var payments decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("payments").
		Joins("JOIN sales ON sales.id = payments.sale_id").
		Joins("JOIN payment_methods ON payment_methods.id = payments.method_id").
		Where("sales.register_id = ? AND sales.canceled = ?", registerID, false).
		Where("payment_methods.counts_in_register = ?", true).
		Select("SUM(payments.total)").
		Scan(&payments).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	if payments.Valid {
		balance = payments.Decimal
	}

	var credits decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Table("cash_movements").
		Where("register_id = ? AND kind = 0", registerID).
		Select("SUM(amount)").
		Scan(&credits).Error; err != nil {
		return decimal.Zero, err
	}
	if credits.Valid {
		balance = balance.Add(credits.Decimal)
	}

	var debits decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Table("cash_movements").
		Where("register_id = ? AND kind = 1", registerID).
		Select("SUM(amount)").
		Scan(&debits).Error; err != nil {
		return decimal.Zero, err
	}
	if debits.Valid {
		balance = balance.Sub(debits.Decimal)
	}

	return balance, nil
}
