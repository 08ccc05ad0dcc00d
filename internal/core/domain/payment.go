package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the instrument used for a payment.
type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCard PaymentMethod = "card"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment represents a single settlement attempt against an order.
// Created pending; transitioned to a terminal state by the payment worker.
type Payment struct {
	ID               string        `json:"id"`
	OrderID          string        `json:"order_id"`
	MerchantID       uuid.UUID     `json:"merchant_id"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	Method           PaymentMethod `json:"method"`
	VPA              *string       `json:"vpa,omitempty"`
	CardNetwork      *string       `json:"card_network,omitempty"`
	CardLast4        *string       `json:"card_last4,omitempty"`
	Status           PaymentStatus `json:"status"`
	ErrorCode        *string       `json:"error_code,omitempty"`
	ErrorDescription *string       `json:"error_description,omitempty"`
	Captured         bool          `json:"captured"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// IsTerminal returns true if the payment worker has finished with this payment.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}

// IsRefundable returns true if refunds may be created against this payment.
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusSuccess
}
