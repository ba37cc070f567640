package domain

import "time"

type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "stripe"
	ProviderRazorpay PaymentProvider = "razorpay"
	ProviderCOD      PaymentProvider = "cod"
)

// PaymentResult is the gateway confirmation attached to an order. It is a
// tagged union keyed by Provider: only the fields of the matching provider
// are populated.
type PaymentResult struct {
	Provider   PaymentProvider `json:"provider"`
	Status     string          `json:"status"`
	UpdateTime time.Time       `json:"update_time"`
	PayerEmail string          `json:"payer_email,omitempty"`

	Stripe   *StripeResult   `json:"stripe,omitempty"`
	Razorpay *RazorpayResult `json:"razorpay,omitempty"`
	COD      *CODResult      `json:"cod,omitempty"`
}

type StripeResult struct {
	IntentID string `json:"intent_id"`
}

type RazorpayResult struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

type CODResult struct {
	Reference string `json:"reference"`
}

func NewStripeResult(intentID, status, payerEmail string) PaymentResult {
	return PaymentResult{
		Provider:   ProviderStripe,
		Status:     status,
		UpdateTime: time.Now(),
		PayerEmail: payerEmail,
		Stripe:     &StripeResult{IntentID: intentID},
	}
}

func NewRazorpayResult(gatewayOrderID, paymentID, payerEmail string) PaymentResult {
	return PaymentResult{
		Provider:   ProviderRazorpay,
		Status:     "completed",
		UpdateTime: time.Now(),
		PayerEmail: payerEmail,
		Razorpay:   &RazorpayResult{OrderID: gatewayOrderID, PaymentID: paymentID},
	}
}

func NewCODResult(reference, payerEmail string) PaymentResult {
	return PaymentResult{
		Provider:   ProviderCOD,
		Status:     "pending",
		UpdateTime: time.Now(),
		PayerEmail: payerEmail,
		COD:        &CODResult{Reference: reference},
	}
}
