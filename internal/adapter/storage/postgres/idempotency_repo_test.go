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

func idempotencyColumns() []string {
	return []string{"key", "merchant_id", "response", "created_at", "expires_at"}
}

func TestIdempotencyRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:        "idem-abc-123",
		MerchantID: uuid.New(),
		Response:   []byte(`{"id":"pay_x"}`),
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.IdempotencyTTL),
	}

	mock.ExpectExec("INSERT INTO idempotency_records").
		WithArgs(rec.Key, rec.MerchantID, rec.Response, rec.CreatedAt, rec.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Create_ConflictIsSilent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:        "idem-abc-123",
		MerchantID: uuid.New(),
		Response:   []byte(`{"id":"pay_y"}`),
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.IdempotencyTTL),
	}

	// ON CONFLICT DO NOTHING: zero rows affected, no error surfaced.
	mock.ExpectExec("INSERT INTO idempotency_records").
		WithArgs(rec.Key, rec.MerchantID, rec.Response, rec.CreatedAt, rec.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = repo.Create(context.Background(), rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	merchantID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM idempotency_records").
		WithArgs("idem-abc-123", merchantID).
		WillReturnRows(pgxmock.NewRows(idempotencyColumns()).AddRow(
			"idem-abc-123", merchantID, []byte(`{"id":"pay_x"}`), now, now.Add(domain.IdempotencyTTL),
		))

	rec, err := repo.Get(context.Background(), merchantID, "idem-abc-123")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "idem-abc-123", rec.Key)
	assert.Equal(t, []byte(`{"id":"pay_x"}`), rec.Response)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM idempotency_records").
		WithArgs("missing", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(idempotencyColumns()))

	rec, err := repo.Get(context.Background(), uuid.New(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	merchantID := uuid.New()

	mock.ExpectExec("DELETE FROM idempotency_records").
		WithArgs("idem-abc-123", merchantID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), merchantID, "idem-abc-123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
