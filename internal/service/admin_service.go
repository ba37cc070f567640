package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
)

// StatsRepo is the aggregation surface behind the admin dashboard.
type StatsRepo interface {
	CountUsers(ctx context.Context, role domain.Role, since *time.Time) (int, error)
	CountProducts(ctx context.Context) (int, error)
	CountOrders(ctx context.Context, since *time.Time) (int, error)
	Revenue(ctx context.Context, since, until time.Time) (float64, error)
	OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
	LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockEntry, error)
	DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error)
	CategorySales(ctx context.Context, since time.Time) ([]domain.CategorySales, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter, page, limit int) ([]domain.User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdminService struct {
	stats             StatsRepo
	users             UserRepo
	lowStockThreshold int
}

func NewAdminService(stats StatsRepo, users UserRepo, lowStockThreshold int) *AdminService {
	return &AdminService{
		stats:             stats,
		users:             users,
		lowStockThreshold: lowStockThreshold,
	}
}

const dashboardListLimit = 5

func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)
	farFuture := now.AddDate(100, 0, 0)

	stats := &domain.DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.stats.CountUsers(ctx, domain.RoleUser, nil); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.stats.CountProducts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.stats.CountOrders(ctx, nil); err != nil {
		return nil, err
	}
	if stats.MonthlyUsers, err = s.stats.CountUsers(ctx, domain.RoleUser, &startOfMonth); err != nil {
		return nil, err
	}
	if stats.MonthlyOrders, err = s.stats.CountOrders(ctx, &startOfMonth); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.stats.Revenue(ctx, startOfMonth, farFuture); err != nil {
		return nil, err
	}

	lastMonthRevenue, err := s.stats.Revenue(ctx, startOfLastMonth, startOfMonth)
	if err != nil {
		return nil, err
	}
	stats.RevenueGrowth = revenueGrowth(stats.MonthlyRevenue, lastMonthRevenue)

	if stats.OrderStatusStats, err = s.stats.OrderStatusCounts(ctx); err != nil {
		return nil, err
	}
	if stats.TopProducts, err = s.stats.TopProducts(ctx, dashboardListLimit); err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.stats.RecentOrders(ctx, dashboardListLimit); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.stats.LowStock(ctx, s.lowStockThreshold, dashboardListLimit); err != nil {
		return nil, err
	}

	return stats, nil
}

// revenueGrowth returns the month-over-month change in percent, rounded to
// two decimals. Growth is 0 when the prior period had no revenue.
func revenueGrowth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return math.Round((current-previous)/previous*100*100) / 100
}

func (s *AdminService) SalesAnalytics(ctx context.Context, periodDays int) (*domain.SalesAnalytics, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	daily, err := s.stats.DailySales(ctx, since)
	if err != nil {
		return nil, err
	}
	categories, err := s.stats.CategorySales(ctx, since)
	if err != nil {
		return nil, err
	}

	return &domain.SalesAnalytics{
		DailySales:    daily,
		CategorySales: categories,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter domain.UserFilter, page, limit int) ([]domain.User, int, error) {
	return s.users.List(ctx, filter, page, limit)
}

func (s *AdminService) UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	if err := domain.ValidateRole(role); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes the user; an admin cannot delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, requester *domain.User, id uuid.UUID) error {
	if requester.ID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrValidation)
	}
	return s.users.Delete(ctx, id)
}
