package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RefundRepo implements ports.RefundRepository.
type RefundRepo struct {
	pool Pool
}

// NewRefundRepo creates a new RefundRepo.
func NewRefundRepo(pool Pool) *RefundRepo {
	return &RefundRepo{pool: pool}
}

// Create inserts a new refund into the database.
func (r *RefundRepo) Create(ctx context.Context, rf *domain.Refund) error {
	query := `INSERT INTO refunds (id, payment_id, merchant_id, amount, reason, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		rf.ID, rf.PaymentID, rf.MerchantID, rf.Amount, rf.Reason,
		string(rf.Status), rf.CreatedAt, rf.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refund: %w", err)
	}
	return nil
}

// GetByID fetches a refund by its public identifier.
func (r *RefundRepo) GetByID(ctx context.Context, id string) (*domain.Refund, error) {
	query := `SELECT id, payment_id, merchant_id, amount, reason, status, created_at, processed_at
		FROM refunds WHERE id = $1`

	rf := &domain.Refund{}
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rf.ID, &rf.PaymentID, &rf.MerchantID, &rf.Amount, &rf.Reason,
		&status, &rf.CreatedAt, &rf.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get refund by id: %w", err)
	}
	rf.Status = domain.RefundStatus(status)
	return rf, nil
}

// Update persists status and processing timestamp.
func (r *RefundRepo) Update(ctx context.Context, rf *domain.Refund) error {
	query := `UPDATE refunds SET status=$1, processed_at=$2 WHERE id=$3`
	_, err := r.pool.Exec(ctx, query, string(rf.Status), rf.ProcessedAt, rf.ID)
	if err != nil {
		return fmt.Errorf("update refund: %w", err)
	}
	return nil
}

// SumActiveByPayment totals pending and processed refund amounts against a
// payment. Pending refunds count: they are committed to settle.
func (r *RefundRepo) SumActiveByPayment(ctx context.Context, paymentID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM refunds
		WHERE payment_id = $1 AND status IN ('pending', 'processed')`

	var total int64
	if err := r.pool.QueryRow(ctx, query, paymentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum refunds by payment: %w", err)
	}
	return total, nil
}
