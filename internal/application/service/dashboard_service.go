package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/credfacil/backoffice-api/internal/domain/repository"
	infraRepo "github.com/credfacil/backoffice-api/internal/infrastructure/repository"
	"github.com/credfacil/backoffice-api/pkg/apperror"
)

// DashboardService provides store dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	storeRepo     repository.StoreRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	storeRepo repository.StoreRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		storeRepo:     storeRepo,
	}
}

// DashboardStats represents dashboard statistics for a store
type DashboardStats struct {
	MonthlyRevenue decimal.Decimal               `json:"monthly_revenue"`
	DailyGoal      decimal.Decimal               `json:"daily_goal"`
	Outstanding    decimal.Decimal               `json:"outstanding"`
	Overdue        decimal.Decimal               `json:"overdue"`
	DueToday       decimal.Decimal               `json:"due_today"`
	Awaiting       int                           `json:"awaiting_confirmation"`
	DailySales     []repository.DailySalesResult `json:"daily_sales"`
	TopProducts    []repository.TopProductResult `json:"top_products"`
	TopSellers     []repository.TopSellerResult  `json:"top_sellers"`
}

// GetDashboardStats aggregates the store's revenue, receivables book and
// top performers for the last 30 days
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	storeID, ok := infraRepo.GetStoreID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Store context required")
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, apperror.NewNotFoundError("Store")
	}

	stats := &DashboardStats{DailyGoal: store.DailySalesGoal}

	monthly, err := s.analyticsRepo.GetMonthlyRevenue(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = monthly

	now := time.Now().UTC()
	receivables, err := s.analyticsRepo.GetReceivables(ctx, storeID, now)
	if err != nil {
		return nil, err
	}
	stats.Outstanding = receivables.Outstanding
	stats.Overdue = receivables.Overdue
	stats.DueToday = receivables.DueToday
	stats.Awaiting = receivables.Awaiting

	daily, err := s.analyticsRepo.GetDailySales(ctx, storeID, 30)
	if err != nil {
		return nil, err
	}
	stats.DailySales = daily

	products, err := s.analyticsRepo.GetTopProducts(ctx, storeID, 5)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = products

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	sellers, err := s.analyticsRepo.GetTopSellers(ctx, storeID, monthStart, now, 5)
	if err != nil {
		return nil, err
	}
	stats.TopSellers = sellers

	return stats, nil
}
