package notify

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardlabs/storefront/internal/domain"
)

type capturePublisher struct {
	routingKey string
	events     []Event
	err        error
}

func (p *capturePublisher) Publish(routingKey string, payload interface{}) error {
	p.routingKey = routingKey
	if event, ok := payload.(Event); ok {
		p.events = append(p.events, event)
	}
	return p.err
}

func TestOrderPaidEvent(t *testing.T) {
	pub := &capturePublisher{}
	notifier := NewAMQPNotifier(pub)

	order := &domain.Order{ID: uuid.New(), TotalPrice: 129.5}
	user := &domain.User{ID: uuid.New(), Email: "jane@example.com"}

	notifier.OrderPaid(order, user)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "notifications.order.paid", pub.routingKey)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, "jane@example.com", event.Recipient)
	assert.Equal(t, "Order Confirmation", event.Subject)
	assert.Contains(t, event.Message, order.ID.String())
	assert.Contains(t, event.Message, "$129.50")
}

func TestOrderStatusChangedIncludesTracking(t *testing.T) {
	pub := &capturePublisher{}
	notifier := NewAMQPNotifier(pub)

	order := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusDelivered, TrackingNumber: "TRK42"}
	user := &domain.User{ID: uuid.New(), Email: "jane@example.com"}

	notifier.OrderStatusChanged(order, user)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "notifications.order.status", pub.routingKey)
	assert.Contains(t, pub.events[0].Message, "delivered")
	assert.Contains(t, pub.events[0].Message, "TRK42")
}

func TestOrderStatusChangedOmitsEmptyTracking(t *testing.T) {
	pub := &capturePublisher{}
	notifier := NewAMQPNotifier(pub)

	order := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing}
	notifier.OrderStatusChanged(order, &domain.User{Email: "x@y.z"})

	require.Len(t, pub.events, 1)
	assert.NotContains(t, pub.events[0].Message, "Tracking Number")
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker gone")}
	notifier := NewAMQPNotifier(pub)

	assert.NotPanics(t, func() {
		notifier.OrderPaid(&domain.Order{ID: uuid.New()}, &domain.User{Email: "x@y.z"})
	})
}
