package postgres

import (
	"context"
	"testing"
	"time"

	"payment-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefund() *domain.Refund {
	return &domain.Refund{
		ID:         domain.NewRefundID(),
		PaymentID:  domain.NewPaymentID(),
		MerchantID: uuid.New(),
		Amount:     10000,
		Reason:     strPtr("customer request"),
		Status:     domain.RefundStatusPending,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRefundRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	rf := newTestRefund()

	mock.ExpectExec("INSERT INTO refunds").
		WithArgs(rf.ID, rf.PaymentID, rf.MerchantID, rf.Amount, rf.Reason,
			string(rf.Status), rf.CreatedAt, rf.ProcessedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), rf)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	rf := newTestRefund()

	mock.ExpectQuery("SELECT .+ FROM refunds WHERE id").
		WithArgs(rf.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "payment_id", "merchant_id", "amount", "reason", "status", "created_at", "processed_at"}).
			AddRow(rf.ID, rf.PaymentID, rf.MerchantID, rf.Amount, rf.Reason,
				string(rf.Status), rf.CreatedAt, rf.ProcessedAt))

	result, err := repo.GetByID(context.Background(), rf.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, rf.ID, result.ID)
	assert.Equal(t, domain.RefundStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)
	rf := newTestRefund()
	now := time.Now().UTC()
	rf.Status = domain.RefundStatusProcessed
	rf.ProcessedAt = &now

	mock.ExpectExec("UPDATE refunds").
		WithArgs(string(rf.Status), rf.ProcessedAt, rf.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), rf)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRepo_SumActiveByPayment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefundRepo(mock)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("pay_abc").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(30000)))

	total, err := repo.SumActiveByPayment(context.Background(), "pay_abc")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
