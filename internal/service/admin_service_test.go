package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orchardlabs/storefront/internal/domain"
)

func TestRevenueGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"no prior revenue", 500, 0, 0},
		{"negative prior revenue", 500, -10, 0},
		{"doubled", 200, 100, 100},
		{"halved", 50, 100, -50},
		{"rounded to two decimals", 100, 300, -66.67},
		{"flat", 100, 100, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, revenueGrowth(tc.current, tc.previous))
		})
	}
}

func TestDashboardStatsAssemblesAllSections(t *testing.T) {
	stats := &mockStatsRepo{}
	stats.On("CountUsers", mock.Anything, domain.RoleUser, (*time.Time)(nil)).Return(100, nil)
	stats.On("CountUsers", mock.Anything, domain.RoleUser, mock.AnythingOfType("*time.Time")).Return(12, nil)
	stats.On("CountProducts", mock.Anything).Return(40, nil)
	stats.On("CountOrders", mock.Anything, (*time.Time)(nil)).Return(250, nil)
	stats.On("CountOrders", mock.Anything, mock.AnythingOfType("*time.Time")).Return(30, nil)
	stats.On("Revenue", mock.Anything, mock.Anything, mock.Anything).Return(3000.0, nil).Once()
	stats.On("Revenue", mock.Anything, mock.Anything, mock.Anything).Return(1500.0, nil).Once()
	stats.On("OrderStatusCounts", mock.Anything).Return([]domain.StatusCount{
		{Status: domain.OrderStatusPending, Count: 5},
	}, nil)
	stats.On("TopProducts", mock.Anything, 5).Return([]domain.TopProduct{
		{ProductID: uuid.New(), Name: "Widget", TotalSold: 20, Revenue: 400},
	}, nil)
	stats.On("RecentOrders", mock.Anything, 5).Return([]domain.RecentOrder{}, nil)
	stats.On("LowStock", mock.Anything, 10, 5).Return([]domain.LowStockEntry{
		{ProductID: uuid.New(), Name: "Widget", Stock: 3},
	}, nil)

	svc := NewAdminService(stats, &mockUserRepo{}, 10)

	got, err := svc.DashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 100, got.TotalUsers)
	assert.Equal(t, 40, got.TotalProducts)
	assert.Equal(t, 250, got.TotalOrders)
	assert.Equal(t, 12, got.MonthlyUsers)
	assert.Equal(t, 30, got.MonthlyOrders)
	assert.Equal(t, 3000.0, got.MonthlyRevenue)
	assert.Equal(t, 100.0, got.RevenueGrowth)
	assert.Len(t, got.OrderStatusStats, 1)
	assert.Len(t, got.TopProducts, 1)
	assert.Len(t, got.LowStockProducts, 1)
}

func TestSalesAnalyticsDefaultsPeriod(t *testing.T) {
	stats := &mockStatsRepo{}
	var gotSince time.Time
	stats.On("DailySales", mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { gotSince = args.Get(1).(time.Time) }).
		Return([]domain.DailySales{}, nil)
	stats.On("CategorySales", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]domain.CategorySales{}, nil)

	svc := NewAdminService(stats, &mockUserRepo{}, 10)

	_, err := svc.SalesAnalytics(context.Background(), 0)

	require.NoError(t, err)
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, gotSince, time.Minute)
}

func TestUpdateUserRoleValidatesRole(t *testing.T) {
	svc := NewAdminService(&mockStatsRepo{}, &mockUserRepo{}, 10)

	_, err := svc.UpdateUserRole(context.Background(), uuid.New(), "superadmin")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateUserRoleReturnsUpdatedUser(t *testing.T) {
	id := uuid.New()
	users := &mockUserRepo{}
	users.On("UpdateRole", mock.Anything, id, domain.RoleAdmin).Return(nil)
	users.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id, Role: domain.RoleAdmin}, nil)

	svc := NewAdminService(&mockStatsRepo{}, users, 10)

	user, err := svc.UpdateUserRole(context.Background(), id, domain.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	users.AssertExpectations(t)
}

func TestDeleteUserRejectsSelfDelete(t *testing.T) {
	admin := testAdmin()
	users := &mockUserRepo{}
	svc := NewAdminService(&mockStatsRepo{}, users, 10)

	err := svc.DeleteUser(context.Background(), admin, admin.ID)

	assert.ErrorIs(t, err, domain.ErrValidation)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser(t *testing.T) {
	admin := testAdmin()
	target := uuid.New()
	users := &mockUserRepo{}
	users.On("Delete", mock.Anything, target).Return(nil)

	svc := NewAdminService(&mockStatsRepo{}, users, 10)

	require.NoError(t, svc.DeleteUser(context.Background(), admin, target))
	users.AssertExpectations(t)
}
