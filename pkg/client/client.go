// Package client is a typed Go client for the Storefront HTTP API. It speaks
// the same response envelope the server emits and surfaces API failures as
// *APIError values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after a login or token rotation.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// Pagination is the page block attached to every list response.
type Pagination struct {
	Count       int `json:"count"`
	Total       int `json:"total"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// Page is a page/limit pair; zero values fall back to server defaults.
type Page struct {
	Page  int
	Limit int
}

func (p Page) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
}

// ---- Wire types ----

type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Items          []OrderItem     `json:"items"`
	ShippingAddr   ShippingAddress `json:"shipping_address"`
	PaymentMethod  string          `json:"payment_method"`
	ItemsPrice     float64         `json:"items_price"`
	TaxPrice       float64         `json:"tax_price"`
	ShippingPrice  float64         `json:"shipping_price"`
	TotalPrice     float64         `json:"total_price"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	DiscountAmount float64         `json:"discount_amount,omitempty"`
	Status         string          `json:"status"`
	IsPaid         bool            `json:"is_paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	IsDelivered    bool            `json:"is_delivered"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	TrackingNumber string          `json:"tracking_number,omitempty"`
	PaymentResult  *PaymentResult  `json:"payment_result,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	Provider   string          `json:"provider"`
	Status     string          `json:"status"`
	UpdateTime time.Time       `json:"update_time"`
	PayerEmail string          `json:"payer_email,omitempty"`
	Stripe     *StripeResult   `json:"stripe,omitempty"`
	Razorpay   *RazorpayResult `json:"razorpay,omitempty"`
	COD        *CODResult      `json:"cod,omitempty"`
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

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	SKU         string    `json:"sku"`
	IsActive    bool      `json:"is_active"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"num_reviews"`
	Reviews     []Review  `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers       int           `json:"total_users"`
	TotalProducts    int           `json:"total_products"`
	TotalOrders      int           `json:"total_orders"`
	MonthlyUsers     int           `json:"monthly_users"`
	MonthlyOrders    int           `json:"monthly_orders"`
	MonthlyRevenue   float64       `json:"monthly_revenue"`
	RevenueGrowth    float64       `json:"revenue_growth"`
	OrderStatusStats []StatusCount `json:"order_status_stats"`
	TopProducts      []TopProduct  `json:"top_products"`
	RecentOrders     []RecentOrder `json:"recent_orders"`
	LowStockProducts []LowStock    `json:"low_stock_products"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	TotalSold int     `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

type RecentOrder struct {
	ID         string    `json:"id"`
	UserName   string    `json:"user_name"`
	UserEmail  string    `json:"user_email"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type LowStock struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

type SalesAnalytics struct {
	DailySales    []DailySale    `json:"daily_sales"`
	CategorySales []CategorySale `json:"category_sales"`
}

type DailySale struct {
	Day    time.Time `json:"day"`
	Sales  float64   `json:"sales"`
	Orders int       `json:"orders"`
}

type CategorySale struct {
	Category string  `json:"category"`
	Sales    float64 `json:"sales"`
	Quantity int     `json:"quantity"`
}

// ---- Orders ----

type CreateOrderRequest struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	ItemsPrice      float64         `json:"items_price"`
	TaxPrice        float64         `json:"tax_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TotalPrice      float64         `json:"total_price"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	DiscountAmount  float64         `json:"discount_amount,omitempty"`
}

type OrdersPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	Status    string
	IsPaid    *bool
	StartDate *time.Time
	EndDate   *time.Time
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context, page Page) (*OrdersPage, error) {
	q := url.Values{}
	page.apply(q)

	var out OrdersPage
	if err := c.do(ctx, http.MethodGet, "/api/orders/user/myorders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders is the admin listing across all users.
func (c *Client) ListOrders(ctx context.Context, filter OrderListFilter, page Page) (*OrdersPage, error) {
	q := url.Values{}
	page.apply(q)
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.IsPaid != nil {
		q.Set("is_paid", strconv.FormatBool(*filter.IsPaid))
	}
	if filter.StartDate != nil {
		q.Set("start_date", filter.StartDate.Format(time.RFC3339))
	}
	if filter.EndDate != nil {
		q.Set("end_date", filter.EndDate.Format(time.RFC3339))
	}

	var out OrdersPage
	if err := c.do(ctx, http.MethodGet, "/api/orders", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type PayOrderRequest struct {
	Provider      string `json:"provider"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	PayerEmail    string `json:"payer_email,omitempty"`
}

func (c *Client) PayOrder(ctx context.Context, id string, req PayOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/pay", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id, status, trackingNumber string) (*Order, error) {
	body := map[string]string{
		"status":          status,
		"tracking_number": trackingNumber,
	}
	var order Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/status", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id+"/cancel", nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ---- Payments ----

type StripeIntent struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

func (c *Client) CreateStripeIntent(ctx context.Context, orderID string, amount float64, currency string) (*StripeIntent, error) {
	body := map[string]interface{}{
		"order_id": orderID,
		"amount":   amount,
		"currency": currency,
	}
	var out StripeIntent
	if err := c.do(ctx, http.MethodPost, "/api/payments/stripe/create-intent", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmStripePayment(ctx context.Context, orderID, paymentIntentID string) (*Order, error) {
	body := map[string]string{
		"order_id":          orderID,
		"payment_intent_id": paymentIntentID,
	}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/payments/stripe/confirm", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type RazorpayCheckout struct {
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Key             string `json:"key"`
}

func (c *Client) CreateRazorpayOrder(ctx context.Context, orderID string, amount float64, currency string) (*RazorpayCheckout, error) {
	body := map[string]interface{}{
		"order_id": orderID,
		"amount":   amount,
		"currency": currency,
	}
	var out RazorpayCheckout
	if err := c.do(ctx, http.MethodPost, "/api/payments/razorpay/create-order", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type RazorpayVerification struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

func (c *Client) VerifyRazorpayPayment(ctx context.Context, orderID string, v RazorpayVerification) (*Order, error) {
	body := map[string]string{
		"order_id":            orderID,
		"razorpay_order_id":   v.RazorpayOrderID,
		"razorpay_payment_id": v.RazorpayPaymentID,
		"razorpay_signature":  v.RazorpaySignature,
	}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/payments/razorpay/verify", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ConfirmCOD(ctx context.Context, orderID string) (*Order, error) {
	body := map[string]string{"order_id": orderID}
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/payments/cod/confirm", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ---- Products ----

type ProductsPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

type ProductListFilter struct {
	Category   string
	Search     string
	ActiveOnly *bool
}

func (c *Client) ListProducts(ctx context.Context, filter ProductListFilter, page Page) (*ProductsPage, error) {
	q := url.Values{}
	page.apply(q)
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.ActiveOnly != nil {
		q.Set("active_only", strconv.FormatBool(*filter.ActiveOnly))
	}

	var out ProductsPage
	if err := c.do(ctx, http.MethodGet, "/api/products", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	SKU         string  `json:"sku"`
	IsActive    bool    `json:"is_active"`
}

func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPost, "/api/products", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil, nil)
}

func (c *Client) AddReview(ctx context.Context, productID string, rating int, comment string) (*Product, error) {
	body := map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}
	var product Product
	if err := c.do(ctx, http.MethodPost, "/api/products/"+productID+"/reviews", nil, body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ---- Admin ----

type UsersPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) SalesAnalytics(ctx context.Context, periodDays int) (*SalesAnalytics, error) {
	q := url.Values{}
	if periodDays > 0 {
		q.Set("period", strconv.Itoa(periodDays))
	}

	var analytics SalesAnalytics
	if err := c.do(ctx, http.MethodGet, "/api/admin/analytics/sales", q, nil, &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *Client) ListUsers(ctx context.Context, search, role string, page Page) (*UsersPage, error) {
	q := url.Values{}
	page.apply(q)
	if search != "" {
		q.Set("search", search)
	}
	if role != "" {
		q.Set("role", role)
	}

	var out UsersPage
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id, role string) (*User, error) {
	body := map[string]string{"role": role}
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+id+"/role", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+id, nil, nil, nil)
}
