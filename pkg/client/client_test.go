package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeWith(data interface{}) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"success": true,
		"message": "ok",
		"data":    data,
	})
	return b
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(envelopeWith(Order{ID: "o1"}))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("secret-token"))
	order, err := c.GetOrder(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "o1", order.ID)
}

func TestClientRoutesAndMethods(t *testing.T) {
	type hit struct {
		method string
		path   string
	}
	var last hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = hit{method: r.Method, path: r.URL.Path}
		w.Write(envelopeWith(map[string]interface{}{}))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want hit
	}{
		{
			name: "create order",
			call: func() error { _, err := c.CreateOrder(ctx, CreateOrderRequest{}); return err },
			want: hit{http.MethodPost, "/api/orders"},
		},
		{
			name: "my orders",
			call: func() error { _, err := c.MyOrders(ctx, Page{}); return err },
			want: hit{http.MethodGet, "/api/orders/user/myorders"},
		},
		{
			name: "pay order",
			call: func() error { _, err := c.PayOrder(ctx, "abc", PayOrderRequest{}); return err },
			want: hit{http.MethodPut, "/api/orders/abc/pay"},
		},
		{
			name: "cancel order",
			call: func() error { _, err := c.CancelOrder(ctx, "abc"); return err },
			want: hit{http.MethodPut, "/api/orders/abc/cancel"},
		},
		{
			name: "stripe intent",
			call: func() error { _, err := c.CreateStripeIntent(ctx, "abc", 10, "usd"); return err },
			want: hit{http.MethodPost, "/api/payments/stripe/create-intent"},
		},
		{
			name: "razorpay verify",
			call: func() error { _, err := c.VerifyRazorpayPayment(ctx, "abc", RazorpayVerification{}); return err },
			want: hit{http.MethodPost, "/api/payments/razorpay/verify"},
		},
		{
			name: "cod confirm",
			call: func() error { _, err := c.ConfirmCOD(ctx, "abc"); return err },
			want: hit{http.MethodPost, "/api/payments/cod/confirm"},
		},
		{
			name: "add review",
			call: func() error { _, err := c.AddReview(ctx, "p1", 5, "great"); return err },
			want: hit{http.MethodPost, "/api/products/p1/reviews"},
		},
		{
			name: "dashboard stats",
			call: func() error { _, err := c.DashboardStats(ctx); return err },
			want: hit{http.MethodGet, "/api/admin/stats"},
		},
		{
			name: "delete user",
			call: func() error { return c.DeleteUser(ctx, "u1") },
			want: hit{http.MethodDelete, "/api/admin/users/u1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.call())
			assert.Equal(t, tc.want, last)
		})
	}
}

func TestClientListQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write(envelopeWith(OrdersPage{}))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	paid := true
	_, err := c.ListOrders(context.Background(), OrderListFilter{
		Status: "processing",
		IsPaid: &paid,
	}, Page{Page: 2, Limit: 25})
	require.NoError(t, err)

	assert.Equal(t, "processing", gotQuery["status"][0])
	assert.Equal(t, "true", gotQuery["is_paid"][0])
	assert.Equal(t, "2", gotQuery["page"][0])
	assert.Equal(t, "25", gotQuery["limit"][0])
}

func TestClientDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Order is already paid",
			"error": map[string]string{
				"code":    "CONFLICT",
				"message": "Order is already paid",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	_, err := c.GetOrder(context.Background(), "o1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, "Order is already paid", apiErr.Message)
}

func TestClientDecodesPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeWith(OrdersPage{
			Orders: []Order{{ID: "o1"}, {ID: "o2"}},
			Pagination: Pagination{
				Count:       2,
				Total:       42,
				TotalPages:  5,
				CurrentPage: 1,
			},
		}))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	page, err := c.MyOrders(context.Background(), Page{Limit: 10})
	require.NoError(t, err)

	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 42, page.Pagination.Total)
	assert.Equal(t, 5, page.Pagination.TotalPages)
}
