package gateway

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const EventPaymentIntentSucceeded = "payment_intent.succeeded"

// StripeClient adapts the Stripe SDK. The API client is constructed here and
// injected where needed, never held as a package-level singleton.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeClient) CreateIntent(amountMinor int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %v", err)
	}
	return intentFromStripe(pi), nil
}

func (s *StripeClient) GetIntent(id string) (*Intent, error) {
	pi, err := s.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe get intent: %v", err)
	}
	return intentFromStripe(pi), nil
}

func (s *StripeClient) ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook verification: %v", err)
	}

	out := &WebhookEvent{Type: string(event.Type)}

	if out.Type == EventPaymentIntentSucceeded {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe webhook payload decode: %v", err)
		}
		out.Intent = intentFromStripe(&pi)
	}

	return out, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
