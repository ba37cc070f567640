package domain

import (
	"time"

	"github.com/google/uuid"
)

// DashboardStats is the point-in-time snapshot backing the admin dashboard.
type DashboardStats struct {
	TotalUsers       int              `json:"total_users"`
	TotalProducts    int              `json:"total_products"`
	TotalOrders      int              `json:"total_orders"`
	MonthlyUsers     int              `json:"monthly_users"`
	MonthlyOrders    int              `json:"monthly_orders"`
	MonthlyRevenue   float64          `json:"monthly_revenue"`
	RevenueGrowth    float64          `json:"revenue_growth"`
	OrderStatusStats []StatusCount    `json:"order_status_stats"`
	TopProducts      []TopProduct     `json:"top_products"`
	RecentOrders     []RecentOrder    `json:"recent_orders"`
	LowStockProducts []LowStockEntry  `json:"low_stock_products"`
}

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	TotalSold int       `json:"total_sold"`
	Revenue   float64   `json:"revenue"`
}

type RecentOrder struct {
	ID         uuid.UUID   `json:"id"`
	UserName   string      `json:"user_name"`
	UserEmail  string      `json:"user_email"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

type LowStockEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

type SalesAnalytics struct {
	DailySales    []DailySales    `json:"daily_sales"`
	CategorySales []CategorySales `json:"category_sales"`
}

type DailySales struct {
	Day    time.Time `json:"day"`
	Sales  float64   `json:"sales"`
	Orders int       `json:"orders"`
}

type CategorySales struct {
	Category ProductCategory `json:"category"`
	Sales    float64         `json:"sales"`
	Quantity int             `json:"quantity"`
}
