package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/notify"
)

// OrderRepo is the order persistence surface the services depend on.
type OrderRepo interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int, error)
	List(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]domain.Order, int, error)
	MarkPaid(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error
	SetProcessing(ctx context.Context, id uuid.UUID, result domain.PaymentResult) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, trackingNumber string) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

// UserGetter resolves order owners for notifications and admin views.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type OrderService struct {
	orders   OrderRepo
	users    UserGetter
	notifier notify.Notifier
}

func NewOrderService(orders OrderRepo, users UserGetter, notifier notify.Notifier) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		notifier: notifier,
	}
}

type CreateOrderInput struct {
	Items         []domain.OrderItem
	ShippingAddr  domain.ShippingAddress
	PaymentMethod domain.PaymentMethod
	Pricing       domain.Pricing
}

func (s *OrderService) Create(ctx context.Context, user *domain.User, input CreateOrderInput) (*domain.Order, error) {
	if err := domain.ValidateItems(input.Items); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, input.PaymentMethod)
	}

	order := domain.NewOrder(user.ID, input.Items, input.ShippingAddr, input.PaymentMethod, input.Pricing)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	log.Printf("Order created: OrderID=%s, UserID=%s, Total=%.2f", order.ID, user.ID, order.TotalPrice)
	return order, nil
}

// Get returns the order if the requester owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(requester.ID) && !requester.IsAdmin() {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

func (s *OrderService) ListAll(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]domain.Order, int, error) {
	return s.orders.List(ctx, filter, page, limit)
}

// Pay marks the order paid from a client-supplied gateway confirmation
// (the generic PUT /orders/:id/pay path).
func (s *OrderService) Pay(ctx context.Context, requester *domain.User, id uuid.UUID, result domain.PaymentResult) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(requester.ID) {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}

	if err := s.orders.MarkPaid(ctx, id, result); err != nil {
		return nil, err
	}

	order, err = s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyPaid(ctx, order)
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, trackingNumber string) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	if err := s.orders.UpdateStatus(ctx, id, status, trackingNumber); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifyStatus(ctx, order)
	return order, nil
}

// Cancel rejects delivered and already-cancelled orders; on success the
// repository restores stock for every line item.
func (s *OrderService) Cancel(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(requester.ID) && !requester.IsAdmin() {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}
	if !order.Cancellable() {
		return nil, domain.ErrNotCancellable
	}

	if err := s.orders.Cancel(ctx, id); err != nil {
		return nil, err
	}

	log.Printf("Order cancelled: OrderID=%s", id)
	return s.orders.GetByID(ctx, id)
}

// notifyPaid and notifyStatus are best effort: a failed owner lookup or a
// failed publish is logged and swallowed.
func (s *OrderService) notifyPaid(ctx context.Context, order *domain.Order) {
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		log.Printf("Notification skipped, owner lookup failed for order %s: %v", order.ID, err)
		return
	}
	s.notifier.OrderPaid(order, user)
}

func (s *OrderService) notifyStatus(ctx context.Context, order *domain.Order) {
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		log.Printf("Notification skipped, owner lookup failed for order %s: %v", order.ID, err)
		return
	}
	s.notifier.OrderStatusChanged(order, user)
}
