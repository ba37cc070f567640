package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/gateway"
	"github.com/orchardlabs/storefront/internal/httpx"
	"github.com/orchardlabs/storefront/internal/middleware"
)

type PaymentService interface {
	CreateStripeIntent(ctx context.Context, requester *domain.User, orderID uuid.UUID, amount float64, currency string) (*gateway.Intent, error)
	ConfirmStripePayment(ctx context.Context, requester *domain.User, orderID uuid.UUID, intentID string) (*domain.Order, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error
	CreateRazorpayOrder(ctx context.Context, requester *domain.User, orderID uuid.UUID, amount float64, currency string) (*gateway.CheckoutOrder, error)
	VerifyRazorpayPayment(ctx context.Context, requester *domain.User, orderID uuid.UUID, gatewayOrderID, paymentID, signature string) (*domain.Order, error)
	ConfirmCOD(ctx context.Context, requester *domain.User, orderID uuid.UUID) (*domain.Order, error)
}

type PaymentHandler struct {
	payments PaymentService
}

func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateStripeIntent(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req StripeIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	intent, err := h.payments.CreateStripeIntent(c.Context(), user, orderID, req.Amount, req.Currency)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Payment intent created", fiber.Map{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
	})
}

func (h *PaymentHandler) ConfirmStripePayment(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req StripeConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	order, err := h.payments.ConfirmStripePayment(c.Context(), user, orderID, req.PaymentIntentID)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Payment confirmed successfully", order)
}

// StripeWebhook is provider-authenticated via the stripe-signature header
// over the raw body; it is mounted outside the user auth middleware.
func (h *PaymentHandler) StripeWebhook(c *fiber.Ctx) error {
	sig := c.Get("stripe-signature")

	if err := h.payments.HandleStripeWebhook(c.Context(), c.Body(), sig); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"received": true})
}

func (h *PaymentHandler) CreateRazorpayOrder(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req RazorpayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	checkout, err := h.payments.CreateRazorpayOrder(c.Context(), user, orderID, req.Amount, req.Currency)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Razorpay order created", fiber.Map{
		"razorpay_order_id": checkout.ID,
		"amount":            checkout.Amount,
		"currency":          checkout.Currency,
		"key":               checkout.KeyID,
	})
}

func (h *PaymentHandler) VerifyRazorpayPayment(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req RazorpayVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	order, err := h.payments.VerifyRazorpayPayment(c.Context(), user, orderID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Payment verified successfully", order)
}

func (h *PaymentHandler) ConfirmCOD(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req CODConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	order, err := h.payments.ConfirmCOD(c.Context(), user, orderID)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Cash on Delivery order confirmed", order)
}
