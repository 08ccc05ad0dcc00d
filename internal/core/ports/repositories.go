package ports

import (
	"context"
	"time"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Merchant, error)
	Update(ctx context.Context, merchant *domain.Merchant) error
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.Payment, error)
}

// RefundRepository defines persistence operations for refunds.
type RefundRepository interface {
	Create(ctx context.Context, refund *domain.Refund) error
	GetByID(ctx context.Context, id string) (*domain.Refund, error)
	Update(ctx context.Context, refund *domain.Refund) error
	// SumActiveByPayment returns the total amount of pending and processed
	// refunds against a payment. Backs the refund admission rule.
	SumActiveByPayment(ctx context.Context, paymentID string) (int64, error)
}

// WebhookRepository defines persistence for webhook delivery logs.
type WebhookRepository interface {
	Create(ctx context.Context, log *domain.WebhookDeliveryLog) error
	Update(ctx context.Context, log *domain.WebhookDeliveryLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error)
	// FindDueRetries returns pending logs whose next_retry_at has elapsed.
	FindDueRetries(ctx context.Context, before time.Time, limit int) ([]domain.WebhookDeliveryLog, error)
	// UpdateNextRetryAt bumps only the retry lease; it never touches
	// status or attempts (those are owned by the delivery engine).
	UpdateNextRetryAt(ctx context.Context, id uuid.UUID, next time.Time) error
	ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookDeliveryLog, int64, error)
}

// IdempotencyRepository defines durable persistence for idempotency records.
type IdempotencyRepository interface {
	Create(ctx context.Context, rec *domain.IdempotencyRecord) error
	Get(ctx context.Context, merchantID uuid.UUID, key string) (*domain.IdempotencyRecord, error)
	Delete(ctx context.Context, merchantID uuid.UUID, key string) error
}
