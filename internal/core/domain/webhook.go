package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Webhook event names emitted by the settlement workers.
const (
	EventPaymentSuccess  = "payment.success"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"
)

// WebhookStatus represents the delivery state of a webhook.
type WebhookStatus string

const (
	WebhookStatusPending WebhookStatus = "pending"
	WebhookStatusSuccess WebhookStatus = "success"
	WebhookStatusFailed  WebhookStatus = "failed"
)

// WebhookDeliveryLog is the persisted audit/state record for one webhook's
// delivery attempts. Attempts only increase; NextRetryAt is nil exactly when
// the record is in a terminal state.
type WebhookDeliveryLog struct {
	ID            uuid.UUID       `json:"id"`
	MerchantID    uuid.UUID       `json:"merchant_id"`
	Event         string          `json:"event"`
	Payload       json.RawMessage `json:"payload"` // already-serialized event body
	Status        WebhookStatus   `json:"status"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
	NextRetryAt   *time.Time      `json:"next_retry_at,omitempty"`
	ResponseCode  *int            `json:"response_code,omitempty"`
	ResponseBody  *string         `json:"response_body,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsTerminal returns true once no further delivery attempts will be made.
func (l *WebhookDeliveryLog) IsTerminal() bool {
	return l.Status == WebhookStatusSuccess || l.Status == WebhookStatusFailed
}

// WebhookEventBody is the JSON structure POSTed to merchant endpoints.
// Timestamp is integer Unix seconds.
type WebhookEventBody struct {
	Event     string         `json:"event"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data"`
}
