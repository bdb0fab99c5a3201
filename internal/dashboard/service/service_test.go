package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderstore "github.com/viniduminsara/ClearLens-Backend/internal/order/store"
)

// mockOrderMetrics is a mock implementation of the OrderMetrics interface
type mockOrderMetrics struct {
	sum       float64
	monthly   []orderstore.MonthlySales
	completed int64
	error     error
	from      time.Time
}

func (m *mockOrderMetrics) SumSuccessAmount(_ context.Context) (float64, error) {
	if m.error != nil {
		return 0, m.error
	}
	return m.sum, nil
}

func (m *mockOrderMetrics) SumSuccessAmountByMonth(_ context.Context, from time.Time) ([]orderstore.MonthlySales, error) {
	m.from = from
	if m.error != nil {
		return nil, m.error
	}
	return m.monthly, nil
}

func (m *mockOrderMetrics) CountByStatus(_ context.Context, _ string) (int64, error) {
	if m.error != nil {
		return 0, m.error
	}
	return m.completed, nil
}

// mockUserMetrics is a mock implementation of the UserMetrics interface
type mockUserMetrics struct {
	customers int64
	error     error
}

func (m *mockUserMetrics) CountByRole(_ context.Context, _ string) (int64, error) {
	if m.error != nil {
		return 0, m.error
	}
	return m.customers, nil
}

func fixedNow() time.Time {
	// mid-August: the series must run Mar..Aug
	return time.Date(2026, time.August, 15, 10, 30, 0, 0, time.UTC)
}

func Test_DashboardService_GetDashboardData(t *testing.T) {
	orders := &mockOrderMetrics{
		sum:       125000.50,
		completed: 42,
		monthly: []orderstore.MonthlySales{
			{Month: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Total: 1500},
			{Month: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), Total: 9000.25},
			{Month: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), Total: 500},
		},
	}
	users := &mockUserMetrics{customers: 17}
	service := NewService(orders, users)
	service.now = fixedNow

	dto, err := service.GetDashboardData(context.Background())

	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.InDelta(t, 125000.50, dto.SalesCount, 1e-9)
	assert.Equal(t, int64(42), dto.OrdersCount)
	assert.Equal(t, int64(17), dto.CustomersCount)

	// trailing six months, oldest first, zero-filled
	require.Len(t, dto.ChartData, 6)
	labels := make([]string, 0, 6)
	for _, point := range dto.ChartData {
		labels = append(labels, point.Month)
	}
	assert.Equal(t, []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug"}, labels)
	assert.Zero(t, dto.ChartData[0].TotalSales)
	assert.InDelta(t, 1500, dto.ChartData[1].TotalSales, 1e-9)
	assert.Zero(t, dto.ChartData[2].TotalSales)
	assert.Zero(t, dto.ChartData[3].TotalSales)
	assert.InDelta(t, 9000.25, dto.ChartData[4].TotalSales, 1e-9)
	assert.InDelta(t, 500, dto.ChartData[5].TotalSales, 1e-9)

	// the store is queried from the first day of the oldest month
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), orders.from)
}

func Test_DashboardService_GetDashboardData_NoPartialResults(t *testing.T) {
	orders := &mockOrderMetrics{error: assert.AnError}
	service := NewService(orders, &mockUserMetrics{customers: 3})
	service.now = fixedNow

	dto, err := service.GetDashboardData(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, dto)
}

func Test_DashboardService_GetDashboardData_UserCountFailure(t *testing.T) {
	service := NewService(&mockOrderMetrics{sum: 10}, &mockUserMetrics{error: assert.AnError})
	service.now = fixedNow

	dto, err := service.GetDashboardData(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, dto)
}
