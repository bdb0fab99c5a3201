// Package service assembles the storefront dashboard from order and account
// aggregates.
package service

import (
	"context"
	"time"

	orderstore "github.com/viniduminsara/ClearLens-Backend/internal/order/store"
	userstore "github.com/viniduminsara/ClearLens-Backend/internal/user/store"
)

// chartMonths is the length of the trailing sales series, current month
// included.
const chartMonths = 6

// OrderMetrics is the slice of the order store the dashboard reads.
type OrderMetrics interface {
	SumSuccessAmount(ctx context.Context) (float64, error)
	SumSuccessAmountByMonth(ctx context.Context, from time.Time) ([]orderstore.MonthlySales, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// UserMetrics is the slice of the user store the dashboard reads.
type UserMetrics interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

// DashboardService defines the methods for the admin dashboard.
type DashboardService interface {
	// GetDashboardData returns the dashboard aggregates in one shot. Any
	// underlying failure fails the whole call; partial dashboards are never
	// returned.
	GetDashboardData(ctx context.Context) (*DashboardDto, error)
}

// Service implements DashboardService.
type Service struct {
	orders OrderMetrics
	users  UserMetrics
	now    func() time.Time
}

// NewService creates a new instance of DashboardService.
func NewService(orders OrderMetrics, users UserMetrics) *Service {
	return &Service{orders: orders, users: users, now: time.Now}
}

// DashboardDto represents the data transfer object for the dashboard.
type DashboardDto struct {
	SalesCount     float64         `json:"salesCount"`
	OrdersCount    int64           `json:"ordersCount"`
	CustomersCount int64           `json:"customersCount"`
	ChartData      []ChartPointDto `json:"chartData"`
}

// ChartPointDto is one month of the trailing sales series.
type ChartPointDto struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"totalSales"`
}

func (s *Service) GetDashboardData(ctx context.Context) (*DashboardDto, error) {
	sales, err := s.orders.SumSuccessAmount(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.orders.CountByStatus(ctx, orderstore.StatusCompleted)
	if err != nil {
		return nil, err
	}
	customers, err := s.users.CountByRole(ctx, userstore.RoleUser)
	if err != nil {
		return nil, err
	}

	chart, err := s.salesSeries(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardDto{
		SalesCount:     sales,
		OrdersCount:    completed,
		CustomersCount: customers,
		ChartData:      chart,
	}, nil
}

// salesSeries builds the trailing six calendar months, oldest first. Months
// with no SUCCESS-paid orders appear with a zero total.
func (s *Service) salesSeries(ctx context.Context) ([]ChartPointDto, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(chartMonths - 1), 0)

	rows, err := s.orders.SumSuccessAmountByMonth(ctx, start)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[monthKey(row.Month)] = row.Total
	}

	series := make([]ChartPointDto, 0, chartMonths)
	for i := 0; i < chartMonths; i++ {
		month := start.AddDate(0, i, 0)
		series = append(series, ChartPointDto{
			Month:      month.Format("Jan"),
			TotalSales: totals[monthKey(month)],
		})
	}
	return series, nil
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
