package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a merchant's intent to collect a payment. Payments are
// always created against an existing order and inherit its amount/currency.
type Order struct {
	ID         string    `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Amount     int64     `json:"amount"` // smallest currency unit
	Currency   string    `json:"currency"`
	Receipt    *string   `json:"receipt,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
