package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant represents a registered merchant account.
type Merchant struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Argon2id, never expose
	APIKey        string    `json:"api_key"`
	WebhookURL    *string   `json:"webhook_url,omitempty"`
	WebhookSecret string    `json:"-"` // HMAC key for outbound webhooks, never expose
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasWebhook returns true if the merchant has a delivery endpoint configured.
func (m *Merchant) HasWebhook() bool {
	return m.WebhookURL != nil && *m.WebhookURL != ""
}
