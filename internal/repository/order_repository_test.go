package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardlabs/storefront/internal/domain"
)

type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

type anyArg struct{}

func (anyArg) Match(driver.Value) bool { return true }

func newOrderRepoMock(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderRepository(db), mock
}

func sampleOrder() *domain.Order {
	return domain.NewOrder(uuid.New(),
		[]domain.OrderItem{
			{ProductID: uuid.New(), Name: "Widget", Quantity: 2, Price: 10},
			{ProductID: uuid.New(), Name: "Gadget", Quantity: 1, Price: 25},
		},
		domain.ShippingAddress{FullName: "Jane Doe", City: "Berlin", Country: "DE"},
		domain.PaymentMethodStripe,
		domain.Pricing{ItemsPrice: 45, TotalPrice: 45},
	)
}

func TestCreateDecrementsStockPerItem(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	for _, item := range order.Items {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1`)).
			WithArgs(item.Quantity, anyTime{}, item.ProductID).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(
			order.ID, order.UserID, order.Status, order.PaymentMethod, anyArg{},
			order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
			order.CouponCode, order.DiscountAmount,
			order.IsPaid, order.IsDelivered, anyTime{}, anyTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, item := range order.Items {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
			WithArgs(order.ID, item.ProductID, item.Name, item.Quantity, item.Price).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), order)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnInsufficientStock(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1`)).
		WithArgs(order.Items[0].Quantity, anyTime{}, order.Items[0].ProductID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, stock FROM products WHERE id = $1`)).
		WithArgs(order.Items[0].ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Widget", 1))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Widget")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnMissingProduct(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock - $1`)).
		WithArgs(order.Items[0].Quantity, anyTime{}, order.Items[0].ProductID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, stock FROM products WHERE id = $1`)).
		WithArgs(order.Items[0].ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidAppliesPaidState(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()
	result := domain.NewStripeResult("pi_1", "succeeded", "jane@example.com")

	mock.ExpectExec(regexp.QuoteMeta(`SET is_paid = TRUE`)).
		WithArgs(id, anyTime{}, domain.OrderStatusProcessing, anyArg{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPaid(context.Background(), id, result)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidTwiceReturnsAlreadyPaid(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`SET is_paid = TRUE`)).
		WithArgs(id, anyTime{}, domain.OrderStatusProcessing, anyArg{}).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_paid FROM orders WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"is_paid"}).AddRow(true))

	err := repo.MarkPaid(context.Background(), id, domain.NewStripeResult("pi_1", "succeeded", ""))

	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`SET is_paid = TRUE`)).
		WithArgs(id, anyTime{}, domain.OrderStatusProcessing, anyArg{}).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT is_paid FROM orders WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"is_paid"}))

	err := repo.MarkPaid(context.Background(), id, domain.NewStripeResult("pi_1", "succeeded", ""))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelRestoresStock(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $2`)).
		WithArgs(id, domain.OrderStatusCancelled, anyTime{},
			domain.OrderStatusDelivered, domain.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, quantity FROM order_items WHERE order_id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(productA.String(), 2).
			AddRow(productB.String(), 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock + $1`)).
		WithArgs(2, anyTime{}, productA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock + $1`)).
		WithArgs(1, anyTime{}, productB).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Cancel(context.Background(), id)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelGuardedByStatus(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = $2`)).
		WithArgs(id, domain.OrderStatusCancelled, anyTime{},
			domain.OrderStatusDelivered, domain.OrderStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Cancel(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotCancellable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusDeliveredStampsDelivery(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`is_delivered = TRUE`)).
		WithArgs(id, domain.OrderStatusDelivered, "TRK1", anyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, domain.OrderStatusDelivered, "TRK1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders`)).
		WithArgs(id, domain.OrderStatusProcessing, "", anyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, domain.OrderStatusProcessing, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newOrderRepoMock(t)
	id := uuid.New()

	mock.ExpectQuery(`(?s)SELECT .+ FROM orders WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
