package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/gateway"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *mockOrderRepo) List(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter, page, limit)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *mockOrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error {
	return m.Called(ctx, id, result).Error(0)
}

func (m *mockOrderRepo) SetProcessing(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error {
	return m.Called(ctx, id, result).Error(0)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, trackingNumber string) error {
	return m.Called(ctx, id, status, trackingNumber).Error(0)
}

func (m *mockOrderRepo) Cancel(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter domain.UserFilter, page, limit int) ([]domain.User, int, error) {
	args := m.Called(ctx, filter, page, limit)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderPaid(order *domain.Order, user *domain.User) {
	m.Called(order, user)
}

func (m *mockNotifier) OrderStatusChanged(order *domain.Order, user *domain.User) {
	m.Called(order, user)
}

type mockStripeGateway struct {
	mock.Mock
}

func (m *mockStripeGateway) CreateIntent(amountMinor int64, currency string, metadata map[string]string) (*gateway.Intent, error) {
	args := m.Called(amountMinor, currency, metadata)
	intent, _ := args.Get(0).(*gateway.Intent)
	return intent, args.Error(1)
}

func (m *mockStripeGateway) GetIntent(id string) (*gateway.Intent, error) {
	args := m.Called(id)
	intent, _ := args.Get(0).(*gateway.Intent)
	return intent, args.Error(1)
}

func (m *mockStripeGateway) ParseWebhook(payload []byte, sigHeader string) (*gateway.WebhookEvent, error) {
	args := m.Called(payload, sigHeader)
	event, _ := args.Get(0).(*gateway.WebhookEvent)
	return event, args.Error(1)
}

type mockRazorpayGateway struct {
	mock.Mock
}

func (m *mockRazorpayGateway) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]interface{}) (*gateway.CheckoutOrder, error) {
	args := m.Called(amountMinor, currency, receipt, notes)
	checkout, _ := args.Get(0).(*gateway.CheckoutOrder)
	return checkout, args.Error(1)
}

func (m *mockRazorpayGateway) VerifySignature(orderID, paymentID, sig string) bool {
	return m.Called(orderID, paymentID, sig).Bool(0)
}

type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) CountUsers(ctx context.Context, role domain.Role, since *time.Time) (int, error) {
	args := m.Called(ctx, role, since)
	return args.Int(0), args.Error(1)
}

func (m *mockStatsRepo) CountProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStatsRepo) CountOrders(ctx context.Context, since *time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *mockStatsRepo) Revenue(ctx context.Context, since, until time.Time) (float64, error) {
	args := m.Called(ctx, since, until)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockStatsRepo) OrderStatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]domain.StatusCount)
	return counts, args.Error(1)
}

func (m *mockStatsRepo) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	args := m.Called(ctx, limit)
	top, _ := args.Get(0).([]domain.TopProduct)
	return top, args.Error(1)
}

func (m *mockStatsRepo) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	args := m.Called(ctx, limit)
	recent, _ := args.Get(0).([]domain.RecentOrder)
	return recent, args.Error(1)
}

func (m *mockStatsRepo) LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockEntry, error) {
	args := m.Called(ctx, threshold, limit)
	entries, _ := args.Get(0).([]domain.LowStockEntry)
	return entries, args.Error(1)
}

func (m *mockStatsRepo) DailySales(ctx context.Context, since time.Time) ([]domain.DailySales, error) {
	args := m.Called(ctx, since)
	daily, _ := args.Get(0).([]domain.DailySales)
	return daily, args.Error(1)
}

func (m *mockStatsRepo) CategorySales(ctx context.Context, since time.Time) ([]domain.CategorySales, error) {
	args := m.Called(ctx, since)
	categories, _ := args.Get(0).([]domain.CategorySales)
	return categories, args.Error(1)
}
