package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/orchardlabs/storefront/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, status, payment_method, shipping_address,
	items_price, tax_price, shipping_price, total_price, coupon_code, discount_amount,
	is_paid, paid_at, is_delivered, delivered_at, tracking_number, payment_result,
	created_at, updated_at`

// Create persists the order and decrements stock for every line item in a
// single transaction. Each decrement is conditional on sufficient stock, so
// concurrent creations against the same product cannot oversell and a failed
// item rolls back the whole order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3 AND stock >= $1`,
			item.Quantity, time.Now(), item.ProductID,
		)
		if err != nil {
			return fmt.Errorf("stock decrement: %v", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return r.classifyStockFailure(ctx, tx, item)
		}
	}

	addrJSON, err := json.Marshal(order.ShippingAddr)
	if err != nil {
		return fmt.Errorf("shipping address serialization: %v", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, payment_method, shipping_address,
			items_price, tax_price, shipping_price, total_price, coupon_code, discount_amount,
			is_paid, is_delivered, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.UserID, order.Status, order.PaymentMethod, addrJSON,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.CouponCode, order.DiscountAmount,
		order.IsPaid, order.IsDelivered, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("order insert: %v", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, name, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Name, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("order item insert: %v", err)
		}
	}

	return tx.Commit()
}

// classifyStockFailure distinguishes a missing product from one with too
// little stock after a conditional decrement touched no rows.
func (r *OrderRepository) classifyStockFailure(ctx context.Context, tx *sql.Tx, item domain.OrderItem) error {
	var name string
	var stock int
	err := tx.QueryRowContext(ctx,
		`SELECT name, stock FROM products WHERE id = $1`, item.ProductID,
	).Scan(&name, &stock)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, item.ProductID)
	}
	if err != nil {
		return fmt.Errorf("product lookup: %v", err)
	}
	return fmt.Errorf("%w for %s: available %d, requested %d",
		domain.ErrInsufficientStock, name, stock, item.Quantity)
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("order lookup: %v", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("order count: %v", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("order listing: %v", err)
	}
	defer rows.Close()

	orders, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]domain.Order, int, error) {
	where, args := buildOrderFilter(filter)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("order count: %v", err)
	}

	args = append(args, (page-1)*limit, limit)
	query := fmt.Sprintf(`SELECT `+orderColumns+` FROM orders%s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("order listing: %v", err)
	}
	defer rows.Close()

	orders, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func buildOrderFilter(filter domain.OrderFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.IsPaid != nil {
		args = append(args, *filter.IsPaid)
		conds = append(conds, fmt.Sprintf("is_paid = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// MarkPaid is a compare-and-swap on is_paid: it only applies the paid state
// to an unpaid order. A replayed webhook or a losing /confirm call observes
// ErrAlreadyPaid instead of double-applying.
func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("payment result serialization: %v", err)
	}

	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET is_paid = TRUE, paid_at = $2, status = $3, payment_result = $4, updated_at = $2
		 WHERE id = $1 AND is_paid = FALSE`,
		id, now, domain.OrderStatusProcessing, resultJSON,
	)
	if err != nil {
		return fmt.Errorf("mark paid: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var isPaid bool
		err := r.db.QueryRowContext(ctx, `SELECT is_paid FROM orders WHERE id = $1`, id).Scan(&isPaid)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("order lookup: %v", err)
		}
		return domain.ErrAlreadyPaid
	}
	return nil
}

// SetProcessing moves an order to processing with a payment result without
// marking it paid. Used by the cash-on-delivery flow.
func (r *OrderRepository) SetProcessing(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("payment result serialization: %v", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, payment_result = $3, updated_at = $4 WHERE id = $1`,
		id, domain.OrderStatusProcessing, resultJSON, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("order update: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, trackingNumber string) error {
	now := time.Now()

	var res sql.Result
	var err error
	if status == domain.OrderStatusDelivered {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders
			 SET status = $2, tracking_number = COALESCE(NULLIF($3, ''), tracking_number),
			     is_delivered = TRUE, delivered_at = $4, updated_at = $4
			 WHERE id = $1`,
			id, status, trackingNumber, now,
		)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders
			 SET status = $2, tracking_number = COALESCE(NULLIF($3, ''), tracking_number), updated_at = $4
			 WHERE id = $1`,
			id, status, trackingNumber, now,
		)
	}
	if err != nil {
		return fmt.Errorf("status update: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return nil
}

// Cancel flips the order to cancelled and restores stock for every line item
// in one transaction. The status guard in the UPDATE keeps the operation safe
// under a concurrent delivery or double cancel.
func (r *OrderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status NOT IN ($4, $5)`,
		id, domain.OrderStatusCancelled, time.Now(),
		domain.OrderStatusDelivered, domain.OrderStatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("cancel update: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotCancellable
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("order items lookup: %v", err)
	}

	type restore struct {
		productID uuid.UUID
		quantity  int
	}
	var restores []restore
	for rows.Next() {
		var r restore
		if err := rows.Scan(&r.productID, &r.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("order item scan: %v", err)
		}
		restores = append(restores, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("order items iteration: %v", err)
	}

	for _, r := range restores {
		_, err = tx.ExecContext(ctx,
			`UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3`,
			r.quantity, time.Now(), r.productID,
		)
		if err != nil {
			return fmt.Errorf("stock restore: %v", err)
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	var ids []uuid.UUID

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("order scan: %v", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order iteration: %v", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, name, quantity, price FROM order_items WHERE order_id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("order items lookup: %v", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]domain.OrderItem)
	for rows.Next() {
		var orderID uuid.UUID
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("order item scan: %v", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var addrJSON []byte
	var resultJSON []byte
	var paidAt, deliveredAt sql.NullTime
	var couponCode, trackingNumber sql.NullString

	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &order.PaymentMethod, &addrJSON,
		&order.ItemsPrice, &order.TaxPrice, &order.ShippingPrice, &order.TotalPrice,
		&couponCode, &order.DiscountAmount,
		&order.IsPaid, &paidAt, &order.IsDelivered, &deliveredAt, &trackingNumber, &resultJSON,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addrJSON, &order.ShippingAddr); err != nil {
		return nil, fmt.Errorf("shipping address deserialization: %v", err)
	}
	if len(resultJSON) > 0 {
		order.PaymentResult = &domain.PaymentResult{}
		if err := json.Unmarshal(resultJSON, order.PaymentResult); err != nil {
			return nil, fmt.Errorf("payment result deserialization: %v", err)
		}
	}
	if paidAt.Valid {
		order.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	order.CouponCode = couponCode.String
	order.TrackingNumber = trackingNumber.String

	return order, nil
}
