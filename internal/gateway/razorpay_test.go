package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRazorpaySignature(t *testing.T) {
	const secret = "test-secret"
	sig := signPayment("order_abc", "pay_xyz", secret)

	assert.True(t, VerifyRazorpaySignature("order_abc", "pay_xyz", sig, secret))
}

func TestVerifyRazorpaySignatureRejects(t *testing.T) {
	const secret = "test-secret"
	sig := signPayment("order_abc", "pay_xyz", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		sig       string
		secret    string
	}{
		{"tampered order id", "order_other", "pay_xyz", sig, secret},
		{"tampered payment id", "order_abc", "pay_other", sig, secret},
		{"wrong secret", "order_abc", "pay_xyz", sig, "other-secret"},
		{"garbage signature", "order_abc", "pay_xyz", "deadbeef", secret},
		{"empty signature", "order_abc", "pay_xyz", "", secret},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, VerifyRazorpaySignature(tc.orderID, tc.paymentID, tc.sig, tc.secret))
		})
	}
}
