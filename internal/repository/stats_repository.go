package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/orchardlabs/storefront/internal/domain"
)

// StatsRepository holds the read-only aggregation queries behind the admin
// dashboard and sales analytics. All reads are point-in-time.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsers(ctx context.Context, role domain.Role, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`
	args := []interface{}{role}
	if since != nil {
		query += ` AND created_at >= $2`
		args = append(args, *since)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("user count: %v", err)
	}
	return count, nil
}

func (r *StatsRepository) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("product count: %v", err)
	}
	return count, nil
}

func (r *StatsRepository) CountOrders(ctx context.Context, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM orders`
	var args []interface{}
	if since != nil {
		query += ` WHERE created_at >= $1`
		args = append(args, *since)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("order count: %v", err)
	}
	return count, nil
}

// Revenue sums total_price over paid orders created in [since, until).
func (r *StatsRepository) Revenue(ctx context.Context, since, until time.Time) (float64, error) {
	var revenue float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_price), 0) FROM orders
		WHERE is_paid = TRUE AND created_at >= $1 AND created_at < $2`,
		since, until,
	).Scan(&revenue)
	if err != nil {
		return 0, fmt.Errorf("revenue sum: %v", err)
	}
	return revenue, nil
}

func (r *StatsRepository) OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("status counts: %v", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("status count scan: %v", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *StatsRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.name, SUM(oi.quantity) AS total_sold,
			SUM(oi.price * oi.quantity) AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY oi.product_id, p.name
		ORDER BY total_sold DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %v", err)
	}
	defer rows.Close()

	var top []domain.TopProduct
	for rows.Next() {
		var tp domain.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.TotalSold, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("top product scan: %v", err)
		}
		top = append(top, tp)
	}
	return top, rows.Err()
}

func (r *StatsRepository) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, u.name, u.email, o.total_price, o.status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %v", err)
	}
	defer rows.Close()

	var recent []domain.RecentOrder
	for rows.Next() {
		var ro domain.RecentOrder
		if err := rows.Scan(&ro.ID, &ro.UserName, &ro.UserEmail, &ro.TotalPrice, &ro.Status, &ro.CreatedAt); err != nil {
			return nil, fmt.Errorf("recent order scan: %v", err)
		}
		recent = append(recent, ro)
	}
	return recent, rows.Err()
}

// LowStock returns active products at or below the threshold, lowest first.
func (r *StatsRepository) LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, stock FROM products
		WHERE stock <= $1 AND is_active = TRUE
		ORDER BY stock ASC
		LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %v", err)
	}
	defer rows.Close()

	var entries []domain.LowStockEntry
	for rows.Next() {
		var e domain.LowStockEntry
		if err := rows.Scan(&e.ProductID, &e.Name, &e.Stock); err != nil {
			return nil, fmt.Errorf("low stock scan: %v", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *StatsRepository) DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_trunc('day', created_at) AS day,
			COALESCE(SUM(total_price), 0) AS sales, COUNT(*) AS orders
		FROM orders
		WHERE is_paid = TRUE AND created_at >= $1
		GROUP BY day
		ORDER BY day ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %v", err)
	}
	defer rows.Close()

	var sales []domain.DailySales
	for rows.Next() {
		var ds domain.DailySales
		if err := rows.Scan(&ds.Day, &ds.Sales, &ds.Orders); err != nil {
			return nil, fmt.Errorf("daily sales scan: %v", err)
		}
		sales = append(sales, ds)
	}
	return sales, rows.Err()
}

func (r *StatsRepository) CategorySales(ctx context.Context, since time.Time) ([]domain.CategorySales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.category,
			SUM(oi.price * oi.quantity) AS sales, SUM(oi.quantity) AS quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.is_paid = TRUE AND o.created_at >= $1
		GROUP BY p.category
		ORDER BY sales DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("category sales: %v", err)
	}
	defer rows.Close()

	var sales []domain.CategorySales
	for rows.Next() {
		var cs domain.CategorySales
		if err := rows.Scan(&cs.Category, &cs.Sales, &cs.Quantity); err != nil {
			return nil, fmt.Errorf("category sales scan: %v", err)
		}
		sales = append(sales, cs)
	}
	return sales, rows.Err()
}
