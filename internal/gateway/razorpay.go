package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayClient adapts the Razorpay SDK for order creation and implements
// payment signature verification locally.
type RazorpayClient struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (r *RazorpayClient) CreateOrder(amountMinor int64, currency, receipt string, notes map[string]interface{}) (*CheckoutOrder, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %v", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay create order: response has no id")
	}

	amount := amountMinor
	if a, ok := body["amount"].(float64); ok {
		amount = int64(a)
	}

	return &CheckoutOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		KeyID:    r.keyID,
	}, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" and
// compares in constant time.
func (r *RazorpayClient) VerifySignature(orderID, paymentID, sig string) bool {
	return VerifyRazorpaySignature(orderID, paymentID, sig, r.keySecret)
}

func VerifyRazorpaySignature(orderID, paymentID, sig, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
