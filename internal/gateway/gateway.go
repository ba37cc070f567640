// Package gateway wraps the external payment provider SDKs behind small
// interfaces so services can be tested without network access.
package gateway

// Intent is a provider-side record representing an in-progress charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

// WebhookEvent is a verified provider callback.
type WebhookEvent struct {
	Type   string
	Intent *Intent
}

type StripeGateway interface {
	CreateIntent(amountMinor int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(id string) (*Intent, error)
	// ParseWebhook verifies the provider signature over the raw payload and
	// returns the decoded event. An invalid signature is an error.
	ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)
}

// CheckoutOrder is a provider-side order created ahead of client checkout.
type CheckoutOrder struct {
	ID       string
	Amount   int64
	Currency string
	KeyID    string
}

type RazorpayGateway interface {
	CreateOrder(amountMinor int64, currency, receipt string, notes map[string]interface{}) (*CheckoutOrder, error)
	// VerifySignature reports whether sig matches HMAC-SHA256 over
	// "orderID|paymentID" keyed with the shared secret.
	VerifySignature(orderID, paymentID, sig string) bool
}
