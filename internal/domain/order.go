package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodCOD      PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodRazorpay, PaymentMethodCOD:
		return true
	}
	return false
}

type Order struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Items          []OrderItem     `json:"items"`
	ShippingAddr   ShippingAddress `json:"shipping_address"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	ItemsPrice     float64         `json:"items_price"`
	TaxPrice       float64         `json:"tax_price"`
	ShippingPrice  float64         `json:"shipping_price"`
	TotalPrice     float64         `json:"total_price"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	DiscountAmount float64         `json:"discount_amount,omitempty"`
	Status         OrderStatus     `json:"status"`
	IsPaid         bool            `json:"is_paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	IsDelivered    bool            `json:"is_delivered"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	PaymentResult  *PaymentResult  `json:"payment_result,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderItem snapshots product name and price at checkout time.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func NewOrder(userID uuid.UUID, items []OrderItem, addr ShippingAddress, method PaymentMethod, pricing Pricing) *Order {
	now := time.Now()
	return &Order{
		ID:             uuid.New(),
		UserID:         userID,
		Items:          items,
		ShippingAddr:   addr,
		PaymentMethod:  method,
		ItemsPrice:     pricing.ItemsPrice,
		TaxPrice:       pricing.TaxPrice,
		ShippingPrice:  pricing.ShippingPrice,
		TotalPrice:     pricing.TotalPrice,
		CouponCode:     pricing.CouponCode,
		DiscountAmount: pricing.DiscountAmount,
		Status:         OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Pricing is the client-computed price breakdown snapshotted onto the order.
type Pricing struct {
	ItemsPrice     float64
	TaxPrice       float64
	ShippingPrice  float64
	TotalPrice     float64
	CouponCode     string
	DiscountAmount float64
}

// OwnedBy reports whether the order belongs to the given user.
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

func (o *Order) Cancellable() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}

// MarkPaid applies the paid postcondition shared by every payment flow.
func (o *Order) MarkPaid(result PaymentResult) {
	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.Status = OrderStatusProcessing
	o.PaymentResult = &result
	o.UpdatedAt = now
}

func (o *Order) SetStatus(status OrderStatus) {
	o.Status = status
	if status == OrderStatusDelivered {
		now := time.Now()
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	o.UpdatedAt = time.Now()
}

// ValidateItems checks the structural invariants of a cart before any
// database work happens.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no order items", ErrValidation)
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("%w: item %d has no product id", ErrValidation, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has quantity %d", ErrValidation, i, item.Quantity)
		}
		if item.Price < 0 {
			return fmt.Errorf("%w: item %d has negative price", ErrValidation, i)
		}
	}
	return nil
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status    OrderStatus
	IsPaid    *bool
	StartDate *time.Time
	EndDate   *time.Time
}
