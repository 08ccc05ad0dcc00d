package ports

import (
	"context"
	"time"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// SignatureService computes webhook payload signatures (HMAC-SHA256,
// lowercase hex).
type SignatureService interface {
	Sign(secret string, payload []byte) string
	Verify(secret string, payload []byte, signature string) bool
}

// TokenService handles dashboard JWT operations.
type TokenService interface {
	Generate(merchantID uuid.UUID, email string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	MerchantID uuid.UUID
	Email      string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// JobProducer serializes typed jobs onto their queues.
type JobProducer interface {
	EnqueuePayment(ctx context.Context, job domain.PaymentJob) error
	EnqueueRefund(ctx context.Context, job domain.RefundJob) error
	EnqueueWebhook(ctx context.Context, job domain.WebhookJob) error
}

// IdempotencyService deduplicates retried write requests.
type IdempotencyService interface {
	// CheckAndReturn yields the stored response for a live (key, merchant)
	// record, or nil if the caller should process the request fresh.
	CheckAndReturn(ctx context.Context, merchantID uuid.UUID, key string) ([]byte, error)
	// Store caches the serialized response for subsequent retries.
	Store(ctx context.Context, merchantID uuid.UUID, key string, response []byte) error
}

// --- Service Ports (Business Logic) ---

// CreateOrderParams holds validated input for order creation.
type CreateOrderParams struct {
	Amount   int64
	Currency string
	Receipt  *string
	Notes    *string
}

// OrderService defines order business logic.
type OrderService interface {
	CreateOrder(ctx context.Context, merchantID uuid.UUID, params CreateOrderParams) (*domain.Order, error)
	GetOrder(ctx context.Context, merchantID uuid.UUID, orderID string) (*domain.Order, error)
}

// CreatePaymentParams holds validated input for payment creation. Card
// details arrive pre-validated and reduced to network + last4.
type CreatePaymentParams struct {
	OrderID     string
	Method      domain.PaymentMethod
	VPA         *string
	CardNetwork *string
	CardLast4   *string
}

// PaymentService defines the synchronous half of payment processing:
// accept, persist pending, hand off to the queue.
type PaymentService interface {
	// CreatePayment returns either a freshly created payment or, when the
	// idempotency key matches a live record, the stored response bytes to
	// be replayed verbatim (payment is nil in that case).
	CreatePayment(ctx context.Context, merchant *domain.Merchant, params CreatePaymentParams, idempotencyKey string) (*domain.Payment, []byte, error)
	GetPayment(ctx context.Context, merchantID uuid.UUID, paymentID string) (*domain.Payment, error)
	ListPayments(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.Payment, error)
	CapturePayment(ctx context.Context, merchantID uuid.UUID, paymentID string) (*domain.Payment, error)
}

// RefundService defines refund admission and creation.
type RefundService interface {
	CreateRefund(ctx context.Context, merchantID uuid.UUID, paymentID string, amount *int64, reason *string) (*domain.Refund, error)
	GetRefund(ctx context.Context, merchantID uuid.UUID, refundID string) (*domain.Refund, error)
}

// WebhookService defines the dashboard surface over delivery logs.
type WebhookService interface {
	ListLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookDeliveryLog, int64, error)
	// RetryDelivery resets a delivery log (status=pending, attempts=0,
	// next_retry_at=nil) and enqueues a fresh WebhookJob referencing it.
	RetryDelivery(ctx context.Context, merchantID uuid.UUID, logID uuid.UUID) (*domain.WebhookDeliveryLog, error)
}

// RegisterParams holds validated input for merchant registration.
type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	WebhookURL *string
}

// AuthService defines merchant registration and dashboard login.
type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*domain.Merchant, error)
	Login(ctx context.Context, email, password string) (string, time.Time, error) // token, expiry, error
}

// MerchantService defines merchant self-management.
type MerchantService interface {
	GetProfile(ctx context.Context, merchantID uuid.UUID) (*domain.Merchant, error)
	UpdateWebhookURL(ctx context.Context, merchantID uuid.UUID, url string) (*domain.Merchant, error)
	RotateWebhookSecret(ctx context.Context, merchantID uuid.UUID) (string, error)
}

// JobStatusService reports queue depths for operational introspection.
type JobStatusService interface {
	QueueDepths(ctx context.Context) (map[string]int64, error)
}
