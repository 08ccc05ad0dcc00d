package dto

// RegisterRequest is the request body for merchant registration.
type RegisterRequest struct {
	Name       string  `json:"name" binding:"required,min=1,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8,max=128"`
	WebhookURL *string `json:"webhook_url,omitempty"`
}

// LoginRequest is the request body for dashboard login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration. The
// api key and webhook secret are shown once, here.
type RegisterResponse struct {
	MerchantID    string `json:"merchant_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	APIKey        string `json:"api_key"`
	WebhookSecret string `json:"webhook_secret"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateOrderRequest is the request body for order creation. Amount is in
// the smallest currency unit.
type CreateOrderRequest struct {
	Amount   int64   `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,len=3"`
	Receipt  *string `json:"receipt,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// CardDetails carries raw card input. Only the detected network and last4
// survive validation; the full number is never stored.
type CardDetails struct {
	Number      string `json:"number" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required"`
	ExpiryYear  string `json:"expiry_year" binding:"required"`
}

// CreatePaymentRequest is the request body for payment creation.
type CreatePaymentRequest struct {
	OrderID string       `json:"order_id" binding:"required"`
	Method  string       `json:"method" binding:"required"`
	VPA     *string      `json:"vpa,omitempty"`
	Card    *CardDetails `json:"card,omitempty"`
}

// CreateRefundRequest is the request body for refund creation. A nil
// amount refunds the payment's remaining balance.
type CreateRefundRequest struct {
	Amount *int64  `json:"amount,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateWebhookRequest is the request body for changing the merchant's
// delivery endpoint. An empty URL disables delivery.
type UpdateWebhookRequest struct {
	URL string `json:"url"`
}

// RotateSecretResponse returns the regenerated webhook signing secret.
type RotateSecretResponse struct {
	WebhookSecret string `json:"webhook_secret"`
}

// WebhookLogListResponse wraps a paginated delivery log page.
type WebhookLogListResponse struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// QueueDepthsResponse reports per-queue backlog sizes.
type QueueDepthsResponse struct {
	Queues map[string]int64 `json:"queues"`
}
