package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      decimal.Decimal
}

// TopSellerResult represents a seller's performance for a period
type TopSellerResult struct {
	SellerID  uuid.UUID
	FirstName string
	LastName  string
	SaleCount int
	Revenue   decimal.Decimal
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue decimal.Decimal
	Count   int
}

// ReceivablesResult aggregates the installment book of a store
type ReceivablesResult struct {
	Outstanding decimal.Decimal
	Overdue     decimal.Decimal
	DueToday    decimal.Decimal
	Awaiting    int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue for a store
	GetTopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]TopProductResult, error)

	// GetTopSellers returns sellers ranked by revenue within the period
	GetTopSellers(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]TopSellerResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, storeID uuid.UUID, days int) ([]DailySalesResult, error)

	// GetReceivables aggregates outstanding, overdue and due-today
	// installment totals for a store as of the given day
	GetReceivables(ctx context.Context, storeID uuid.UUID, today time.Time) (*ReceivablesResult, error)

	// GetMonthlyRevenue returns revenue of non-canceled sales for the current month
	GetMonthlyRevenue(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, error)

	// GetRegisterBalance sums on-books payments plus manual movements of a session
	GetRegisterBalance(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)
}
