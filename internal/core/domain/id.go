package domain

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomString returns a cryptographically random string over idAlphabet.
func randomString(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err) // crypto/rand failure is not recoverable
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b)
}

// NewPaymentID generates an API-visible payment identifier (pay_ + 16 chars).
func NewPaymentID() string { return "pay_" + randomString(16) }

// NewRefundID generates an API-visible refund identifier.
func NewRefundID() string { return "rfnd_" + randomString(16) }

// NewOrderID generates an API-visible order identifier.
func NewOrderID() string { return "order_" + randomString(16) }

// NewAPIKey generates a merchant API key.
func NewAPIKey() string { return "key_" + randomString(16) }

// NewWebhookSecret generates a merchant webhook signing secret.
func NewWebhookSecret() string { return "whsec_" + randomString(32) }
