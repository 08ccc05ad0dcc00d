package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyTTL bounds how long a stored response is replayed for retried
// requests carrying the same key.
const IdempotencyTTL = 24 * time.Hour

// IdempotencyRecord caches the response produced for a client-supplied
// idempotency key. Identity is the composite (Key, MerchantID); at most one
// live record exists per pair, expired rows are deleted lazily on read.
type IdempotencyRecord struct {
	Key        string    `json:"key"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Response   []byte    `json:"response"` // serialized response returned verbatim on replay
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its TTL at the given instant.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// CacheKey builds the composite key used by the Redis fast path.
func (r *IdempotencyRecord) CacheKey() string {
	return BuildIdempotencyCacheKey(r.MerchantID, r.Key)
}

// BuildIdempotencyCacheKey constructs the composite cache key format.
func BuildIdempotencyCacheKey(merchantID uuid.UUID, key string) string {
	return merchantID.String() + ":" + key
}
