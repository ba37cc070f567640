package messaging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends a JSON-encoded message to the client's topic exchange under
// the given routing key.
func (p *Publisher) Publish(routingKey string, payload interface{}) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("message serialization error: %v", err)
	}

	err = p.client.Channel().Publish(
		p.client.Exchange(),
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.New().String(),
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("message publish error: %v", err)
	}

	log.Printf("Message published: %s", routingKey)
	return nil
}
