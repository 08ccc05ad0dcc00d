package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Queue names. Each job kind has its own FIFO list; FIFO holds within a
// queue, cross-queue ordering is undefined.
const (
	QueuePayments = "queue:payments"
	QueueRefunds  = "queue:refunds"
	QueueWebhooks = "queue:webhooks"
)

// PaymentJob asks the payment worker to settle a pending payment.
type PaymentJob struct {
	PaymentID string `json:"paymentId"`
}

// RefundJob asks the refund worker to settle a pending refund.
type RefundJob struct {
	RefundID string `json:"refundId"`
}

// WebhookJob asks the delivery engine to POST an event to a merchant.
// WebhookLogID is set on the retry path so the engine reuses the existing
// delivery log instead of creating a duplicate.
type WebhookJob struct {
	MerchantID   uuid.UUID       `json:"merchantId"`
	Event        string          `json:"event"`
	Payload      json.RawMessage `json:"payload"`
	WebhookLogID *uuid.UUID      `json:"webhookLogId,omitempty"`
}
