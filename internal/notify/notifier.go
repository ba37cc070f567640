// Package notify publishes order notification events. Delivery to the
// customer (email, SMS) is handled by an external consumer; everything here
// is best effort and never fails the calling operation.
package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
)

type Notifier interface {
	OrderPaid(order *domain.Order, user *domain.User)
	OrderStatusChanged(order *domain.Order, user *domain.User)
}

type publisher interface {
	Publish(routingKey string, payload interface{}) error
}

// Event is the message consumed by the delivery service.
type Event struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type AMQPNotifier struct {
	publisher publisher
}

func NewAMQPNotifier(p publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: p}
}

func (n *AMQPNotifier) OrderPaid(order *domain.Order, user *domain.User) {
	message := fmt.Sprintf("Your order #%s has been confirmed and payment received. Total amount: $%.2f",
		order.ID, order.TotalPrice)
	n.send("order.paid", order, user, "Order Confirmation", message)
}

func (n *AMQPNotifier) OrderStatusChanged(order *domain.Order, user *domain.User) {
	message := fmt.Sprintf("Your order #%s status has been updated to: %s", order.ID, order.Status)
	if order.TrackingNumber != "" {
		message += fmt.Sprintf("\nTracking Number: %s", order.TrackingNumber)
	}
	n.send("order.status", order, user, "Order Status Update", message)
}

func (n *AMQPNotifier) send(routingKey string, order *domain.Order, user *domain.User, subject, message string) {
	event := Event{
		ID:        uuid.New(),
		OrderID:   order.ID,
		UserID:    user.ID,
		Recipient: user.Email,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := n.publisher.Publish("notifications."+routingKey, event); err != nil {
		log.Printf("Failed to publish notification for order %s: %v", order.ID, err)
	}
}

// NopNotifier is used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) OrderPaid(order *domain.Order, user *domain.User)          {}
func (NopNotifier) OrderStatusChanged(order *domain.Order, user *domain.User) {}
