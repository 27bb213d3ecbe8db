package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesSummary is the headline card set on the admin dashboard.
type SalesSummary struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	UniqueCustomers   int64           `json:"unique_customers"`
}

// RevenueBucket is one day of revenue.
type RevenueBucket struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct is one row of the best-sellers table.
type TopProduct struct {
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Service serves the admin dashboards as SQL aggregates over paid orders.
type Service interface {
	Summary(ctx context.Context) (*SalesSummary, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]RevenueBucket, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs the analytics service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

// Summary aggregates headline numbers over paid orders.
func (s *service) Summary(ctx context.Context) (*SalesSummary, error) {
	var row struct {
		TotalOrders     int64
		TotalRevenue    decimal.Decimal
		UniqueCustomers int64
	}
	err := s.db.WithContext(ctx).Raw(`
SELECT
  COUNT(*) AS total_orders,
  COALESCE(SUM(total), 0) AS total_revenue,
  COUNT(DISTINCT user_id) AS unique_customers
FROM orders
WHERE payment_status = 'paid'`).Scan(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate sales summary")
	}

	summary := &SalesSummary{
		TotalOrders:       row.TotalOrders,
		TotalRevenue:      row.TotalRevenue,
		AverageOrderValue: decimal.Zero,
		UniqueCustomers:   row.UniqueCustomers,
	}
	if row.TotalOrders > 0 {
		summary.AverageOrderValue = row.TotalRevenue.
			Div(decimal.NewFromInt(row.TotalOrders)).
			Round(2)
	}
	return summary, nil
}

// RevenueByDay buckets paid orders per calendar day from the given instant.
func (s *service) RevenueByDay(ctx context.Context, since time.Time) ([]RevenueBucket, error) {
	var buckets []RevenueBucket
	err := s.db.WithContext(ctx).Raw(`
SELECT
  DATE(created_at) AS day,
  COUNT(*) AS orders,
  COALESCE(SUM(total), 0) AS revenue
FROM orders
WHERE payment_status = 'paid' AND created_at >= ?
GROUP BY DATE(created_at)
ORDER BY day ASC`, since).Scan(&buckets).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate revenue by day")
	}
	return buckets, nil
}

// TopProducts ranks line items of paid orders by units sold.
func (s *service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopProduct
	err := s.db.WithContext(ctx).Raw(`
SELECT
  oli.product_id AS product_id,
  oli.name AS name,
  SUM(oli.qty) AS units_sold,
  COALESCE(SUM(oli.total), 0) AS revenue
FROM order_line_items oli
JOIN orders o ON o.id = oli.order_id
WHERE o.payment_status = 'paid'
GROUP BY oli.product_id, oli.name
ORDER BY units_sold DESC, revenue DESC
LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate top products")
	}
	return rows, nil
}
