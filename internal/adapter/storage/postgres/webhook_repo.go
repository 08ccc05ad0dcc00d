package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, merchant_id, event, payload, status, attempts, last_attempt_at, next_retry_at, response_code, response_body, created_at, updated_at`

// Create inserts a new delivery log.
func (r *WebhookRepo) Create(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	query := `INSERT INTO webhook_delivery_logs (` + webhookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.MerchantID, l.Event, []byte(l.Payload),
		string(l.Status), l.Attempts, l.LastAttemptAt, l.NextRetryAt,
		l.ResponseCode, l.ResponseBody, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook log: %w", err)
	}
	return nil
}

// Update persists delivery state after an attempt (or a dashboard reset).
func (r *WebhookRepo) Update(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	l.UpdatedAt = time.Now()
	query := `UPDATE webhook_delivery_logs
		SET status=$1, attempts=$2, last_attempt_at=$3, next_retry_at=$4,
		    response_code=$5, response_body=$6, updated_at=$7
		WHERE id=$8`
	_, err := r.pool.Exec(ctx, query,
		string(l.Status), l.Attempts, l.LastAttemptAt, l.NextRetryAt,
		l.ResponseCode, l.ResponseBody, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook log: %w", err)
	}
	return nil
}

// GetByID fetches a delivery log by its UUID.
func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_delivery_logs WHERE id = $1`

	l, err := scanWebhookLog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook log by id: %w", err)
	}
	return l, nil
}

// FindDueRetries returns pending logs whose next_retry_at has elapsed,
// oldest due first.
func (r *WebhookRepo) FindDueRetries(ctx context.Context, before time.Time, limit int) ([]domain.WebhookDeliveryLog, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_delivery_logs
		WHERE status = 'pending' AND next_retry_at IS NOT NULL AND next_retry_at <= $1
		ORDER BY next_retry_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, before, limit)
	if err != nil {
		return nil, fmt.Errorf("find due retries: %w", err)
	}
	defer rows.Close()

	var logs []domain.WebhookDeliveryLog
	for rows.Next() {
		l, err := scanWebhookLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// UpdateNextRetryAt bumps only the retry lease. Status and attempts are
// owned by the delivery engine and stay untouched.
func (r *WebhookRepo) UpdateNextRetryAt(ctx context.Context, id uuid.UUID, next time.Time) error {
	query := `UPDATE webhook_delivery_logs SET next_retry_at=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, next, id)
	if err != nil {
		return fmt.Errorf("update webhook next_retry_at: %w", err)
	}
	return nil
}

// ListByMerchant returns the merchant's delivery logs, newest first, with a
// total count for pagination.
func (r *WebhookRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookDeliveryLog, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM webhook_delivery_logs WHERE merchant_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, merchantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count webhook logs: %w", err)
	}

	query := `SELECT ` + webhookColumns + ` FROM webhook_delivery_logs
		WHERE merchant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, merchantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.WebhookDeliveryLog
	for rows.Next() {
		l, err := scanWebhookLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan webhook log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

func scanWebhookLog(row pgx.Row) (*domain.WebhookDeliveryLog, error) {
	l := &domain.WebhookDeliveryLog{}
	var status string
	var payload []byte
	err := row.Scan(
		&l.ID, &l.MerchantID, &l.Event, &payload,
		&status, &l.Attempts, &l.LastAttemptAt, &l.NextRetryAt,
		&l.ResponseCode, &l.ResponseBody, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = domain.WebhookStatus(status)
	l.Payload = payload
	return l, nil
}
