package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository.
type IdempotencyRepo struct {
	pool Pool
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool}
}

// Create inserts an idempotency record. Concurrent first requests with the
// same key race on the primary key; ON CONFLICT DO NOTHING keeps the first
// writer's response and lets the loser's insert succeed silently.
func (r *IdempotencyRepo) Create(ctx context.Context, rec *domain.IdempotencyRecord) error {
	query := `INSERT INTO idempotency_records (key, merchant_id, response, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key, merchant_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		rec.Key, rec.MerchantID, rec.Response, rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert idempotency record: %w", err)
	}
	return nil
}

// Get fetches an idempotency record by its composite identity.
func (r *IdempotencyRepo) Get(ctx context.Context, merchantID uuid.UUID, key string) (*domain.IdempotencyRecord, error) {
	query := `SELECT key, merchant_id, response, created_at, expires_at
		FROM idempotency_records WHERE key = $1 AND merchant_id = $2`

	rec := &domain.IdempotencyRecord{}
	err := r.pool.QueryRow(ctx, query, key, merchantID).Scan(
		&rec.Key, &rec.MerchantID, &rec.Response, &rec.CreatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}
	return rec, nil
}

// Delete removes an expired record. Called lazily from the read path.
func (r *IdempotencyRepo) Delete(ctx context.Context, merchantID uuid.UUID, key string) error {
	query := `DELETE FROM idempotency_records WHERE key = $1 AND merchant_id = $2`
	_, err := r.pool.Exec(ctx, query, key, merchantID)
	if err != nil {
		return fmt.Errorf("delete idempotency record: %w", err)
	}
	return nil
}
