package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/httpx"
	"github.com/orchardlabs/storefront/internal/middleware"
	"github.com/orchardlabs/storefront/internal/service"
)

// OrderService is the surface of the order service the handler depends on.
type OrderService interface {
	Create(ctx context.Context, user *domain.User, input service.CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Order, error)
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Order, int, error)
	ListAll(ctx context.Context, filter domain.OrderFilter, page, limit int) ([]domain.Order, int, error)
	Pay(ctx context.Context, requester *domain.User, id uuid.UUID, result domain.PaymentResult) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, trackingNumber string) (*domain.Order, error)
	Cancel(ctx context.Context, requester *domain.User, id uuid.UUID) (*domain.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return httpx.BadRequest(c, "Invalid product ID", map[string]interface{}{
				"item_index": i,
				"product_id": item.ProductID,
			})
		}
		items[i] = domain.OrderItem{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order, err := h.orders.Create(c.Context(), user, service.CreateOrderInput{
		Items:         items,
		ShippingAddr:  req.ShippingAddress,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Pricing: domain.Pricing{
			ItemsPrice:     req.ItemsPrice,
			TaxPrice:       req.TaxPrice,
			ShippingPrice:  req.ShippingPrice,
			TotalPrice:     req.TotalPrice,
			CouponCode:     req.CouponCode,
			DiscountAmount: req.DiscountAmount,
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Created(c, "Order created successfully", order)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	order, err := h.orders.Get(c.Context(), user, id)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	page, limit := pagination(c)

	orders, total, err := h.orders.ListMine(c.Context(), user.ID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Orders retrieved successfully", fiber.Map{
		"orders":     orders,
		"pagination": pageMeta(len(orders), total, page, limit),
	})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, limit := pagination(c)

	filter := domain.OrderFilter{}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.OrderStatus(status)
	}
	if isPaid := c.Query("is_paid"); isPaid != "" {
		paid, err := strconv.ParseBool(isPaid)
		if err != nil {
			return httpx.BadRequest(c, "Invalid is_paid filter", nil)
		}
		filter.IsPaid = &paid
	}
	if start := c.Query("start_date"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return httpx.BadRequest(c, "Invalid start_date, expected RFC3339", nil)
		}
		filter.StartDate = &t
	}
	if end := c.Query("end_date"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return httpx.BadRequest(c, "Invalid end_date, expected RFC3339", nil)
		}
		filter.EndDate = &t
	}

	orders, total, err := h.orders.ListAll(c.Context(), filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Orders retrieved successfully", fiber.Map{
		"orders":     orders,
		"pagination": pageMeta(len(orders), total, page, limit),
	})
}

func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	var req PayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	result, err := paymentResultFromRequest(req, user.Email)
	if err != nil {
		return respondError(c, err)
	}

	order, err := h.orders.Pay(c.Context(), user, id, result)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Order updated to paid", order)
}

func paymentResultFromRequest(req PayOrderRequest, fallbackEmail string) (domain.PaymentResult, error) {
	email := req.PayerEmail
	if email == "" {
		email = fallbackEmail
	}

	switch domain.PaymentProvider(req.Provider) {
	case domain.ProviderStripe:
		return domain.NewStripeResult(req.TransactionID, req.Status, email), nil
	case domain.ProviderRazorpay:
		return domain.NewRazorpayResult(req.TransactionID, req.TransactionID, email), nil
	case domain.ProviderCOD:
		return domain.NewCODResult(req.TransactionID, email), nil
	default:
		return domain.PaymentResult{}, fmt.Errorf("%w: unknown payment provider %q", domain.ErrValidation, req.Provider)
	}
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	order, err := h.orders.UpdateStatus(c.Context(), id, domain.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Order status updated successfully", order)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid order ID", nil)
	}

	order, err := h.orders.Cancel(c.Context(), user, id)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Order cancelled successfully", order)
}
