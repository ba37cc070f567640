package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/gateway"
	"github.com/orchardlabs/storefront/internal/notify"
)

// PaymentService routes the three payment flows (Stripe, Razorpay, COD) onto
// the shared order postcondition.
type PaymentService struct {
	orders   OrderRepo
	users    UserGetter
	stripe   gateway.StripeGateway
	razorpay gateway.RazorpayGateway
	notifier notify.Notifier
}

func NewPaymentService(orders OrderRepo, users UserGetter, stripe gateway.StripeGateway, razorpay gateway.RazorpayGateway, notifier notify.Notifier) *PaymentService {
	return &PaymentService{
		orders:   orders,
		users:    users,
		stripe:   stripe,
		razorpay: razorpay,
		notifier: notifier,
	}
}

// minorUnits converts a major-currency amount to the gateway's minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *PaymentService) ownedOrder(ctx context.Context, requester *domain.User, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(requester.ID) {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}
	return order, nil
}

func (s *PaymentService) CreateStripeIntent(ctx context.Context, requester *domain.User, orderID uuid.UUID, amount float64, currency string) (*gateway.Intent, error) {
	order, err := s.ownedOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.stripe.CreateIntent(minorUnits(amount), currency, map[string]string{
		"order_id": order.ID.String(),
		"user_id":  requester.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return intent, nil
}

// ConfirmStripePayment polls the intent status server-side. If the webhook
// already marked the order paid, the call is a no-op success.
func (s *PaymentService) ConfirmStripePayment(ctx context.Context, requester *domain.User, orderID uuid.UUID, intentID string) (*domain.Order, error) {
	intent, err := s.stripe.GetIntent(intentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if intent.Status != "succeeded" {
		return nil, fmt.Errorf("%w: payment not successful (status %s)", domain.ErrValidation, intent.Status)
	}

	order, err := s.ownedOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}

	result := domain.NewStripeResult(intent.ID, intent.Status, requester.Email)
	err = s.orders.MarkPaid(ctx, order.ID, result)
	switch {
	case errors.Is(err, domain.ErrAlreadyPaid):
		// Lost the race against the webhook; the postcondition holds.
		log.Printf("Stripe confirm: order %s already paid", order.ID)
	case err != nil:
		return nil, err
	default:
		s.notifyPaid(ctx, order.ID)
	}

	return s.orders.GetByID(ctx, order.ID)
}

// HandleStripeWebhook verifies the provider signature, then applies
// payment_intent.succeeded idempotently: a redelivered event finds the order
// already paid and does nothing.
func (s *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.stripe.ParseWebhook(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadSignature, err)
	}

	if event.Type != gateway.EventPaymentIntentSucceeded || event.Intent == nil {
		return nil
	}

	orderID, err := uuid.Parse(event.Intent.Metadata["order_id"])
	if err != nil {
		log.Printf("Stripe webhook: intent %s has no usable order_id metadata", event.Intent.ID)
		return nil
	}

	result := domain.NewStripeResult(event.Intent.ID, event.Intent.Status, "")
	err = s.orders.MarkPaid(ctx, orderID, result)
	switch {
	case errors.Is(err, domain.ErrAlreadyPaid):
		log.Printf("Stripe webhook: order %s already paid, event ignored", orderID)
		return nil
	case errors.Is(err, domain.ErrNotFound):
		log.Printf("Stripe webhook: order %s not found, event ignored", orderID)
		return nil
	case err != nil:
		return err
	}

	s.notifyPaid(ctx, orderID)
	return nil
}

func (s *PaymentService) CreateRazorpayOrder(ctx context.Context, requester *domain.User, orderID uuid.UUID, amount float64, currency string) (*gateway.CheckoutOrder, error) {
	order, err := s.ownedOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "INR"
	}

	checkout, err := s.razorpay.CreateOrder(minorUnits(amount), currency, "order_"+order.ID.String(), map[string]interface{}{
		"order_id": order.ID.String(),
		"user_id":  requester.ID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return checkout, nil
}

// VerifyRazorpayPayment recomputes the HMAC signature before touching the
// order; an invalid signature never reaches the database.
func (s *PaymentService) VerifyRazorpayPayment(ctx context.Context, requester *domain.User, orderID uuid.UUID, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	if !s.razorpay.VerifySignature(gatewayOrderID, paymentID, signature) {
		return nil, domain.ErrBadSignature
	}

	order, err := s.ownedOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}

	result := domain.NewRazorpayResult(gatewayOrderID, paymentID, requester.Email)
	if err := s.orders.MarkPaid(ctx, order.ID, result); err != nil {
		return nil, err
	}

	s.notifyPaid(ctx, order.ID)
	return s.orders.GetByID(ctx, order.ID)
}

// ConfirmCOD moves the order to processing with a synthetic pending payment
// record. The order stays unpaid until delivery.
func (s *PaymentService) ConfirmCOD(ctx context.Context, requester *domain.User, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.ownedOrder(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}

	result := domain.NewCODResult("cod_"+uuid.New().String(), requester.Email)
	if err := s.orders.SetProcessing(ctx, order.ID, result); err != nil {
		return nil, err
	}

	return s.orders.GetByID(ctx, order.ID)
}

func (s *PaymentService) notifyPaid(ctx context.Context, orderID uuid.UUID) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("Notification skipped, order %s lookup failed: %v", orderID, err)
		return
	}
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		log.Printf("Notification skipped, owner lookup failed for order %s: %v", orderID, err)
		return
	}
	s.notifier.OrderPaid(order, user)
}
