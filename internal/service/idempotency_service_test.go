package service

import (
	"context"
	"testing"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type idemTestDeps struct {
	svc   *IdempotencyServiceImpl
	cache *mocks.MockIdempotencyCache
	repo  *mocks.MockIdempotencyRepository
	ctrl  *gomock.Controller
}

func setupIdempotencyService(t *testing.T) *idemTestDeps {
	ctrl := gomock.NewController(t)
	d := &idemTestDeps{
		cache: mocks.NewMockIdempotencyCache(ctrl),
		repo:  mocks.NewMockIdempotencyRepository(ctrl),
		ctrl:  ctrl,
	}
	d.svc = NewIdempotencyService(d.cache, d.repo, zerolog.Nop())
	return d
}

func TestIdempotencyService_CheckAndReturn_CacheHit(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, "key-1")

	d.cache.EXPECT().Get(ctx, cacheKey).Return([]byte(`{"id":"pay_cached"}`), nil)

	resp, err := d.svc.CheckAndReturn(ctx, merchantID, "key-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"pay_cached"}`), resp)
}

func TestIdempotencyService_CheckAndReturn_Miss(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, "key-2")

	d.cache.EXPECT().Get(ctx, cacheKey).Return(nil, nil)
	d.repo.EXPECT().Get(ctx, merchantID, "key-2").Return(nil, nil)

	resp, err := d.svc.CheckAndReturn(ctx, merchantID, "key-2")
	require.NoError(t, err)
	assert.Nil(t, resp, "fresh key should yield nil so the caller processes the request")
}

func TestIdempotencyService_CheckAndReturn_DatabaseFallback(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, "key-3")
	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:        "key-3",
		MerchantID: merchantID,
		Response:   []byte(`{"id":"pay_durable"}`),
		CreatedAt:  now.Add(-time.Hour),
		ExpiresAt:  now.Add(23 * time.Hour),
	}

	d.cache.EXPECT().Get(ctx, cacheKey).Return(nil, nil)
	d.repo.EXPECT().Get(ctx, merchantID, "key-3").Return(rec, nil)
	// Cache gets re-primed with the remaining TTL.
	d.cache.EXPECT().Set(ctx, cacheKey, rec.Response, gomock.Any()).Return(nil)

	resp, err := d.svc.CheckAndReturn(ctx, merchantID, "key-3")
	require.NoError(t, err)
	assert.Equal(t, rec.Response, resp)
}

func TestIdempotencyService_CheckAndReturn_ExpiredRecordDeletedLazily(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, "key-4")
	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:        "key-4",
		MerchantID: merchantID,
		Response:   []byte(`{"id":"pay_stale"}`),
		CreatedAt:  now.Add(-25 * time.Hour),
		ExpiresAt:  now.Add(-time.Hour),
	}

	d.cache.EXPECT().Get(ctx, cacheKey).Return(nil, nil)
	d.repo.EXPECT().Get(ctx, merchantID, "key-4").Return(rec, nil)
	d.repo.EXPECT().Delete(ctx, merchantID, "key-4").Return(nil)

	resp, err := d.svc.CheckAndReturn(ctx, merchantID, "key-4")
	require.NoError(t, err)
	assert.Nil(t, resp, "expired record must be treated as absent")
}

func TestIdempotencyService_CheckAndReturn_CacheErrorDegrades(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, "key-5")

	d.cache.EXPECT().Get(ctx, cacheKey).Return(nil, assert.AnError)
	d.repo.EXPECT().Get(ctx, merchantID, "key-5").Return(nil, nil)

	resp, err := d.svc.CheckAndReturn(ctx, merchantID, "key-5")
	require.NoError(t, err, "cache failure must not fail the request")
	assert.Nil(t, resp)
}

func TestIdempotencyService_Store(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	response := []byte(`{"id":"pay_new"}`)

	d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *domain.IdempotencyRecord) error {
			assert.Equal(t, "key-6", rec.Key)
			assert.Equal(t, merchantID, rec.MerchantID)
			assert.Equal(t, response, rec.Response)
			assert.WithinDuration(t, rec.CreatedAt.Add(domain.IdempotencyTTL), rec.ExpiresAt, time.Second)
			return nil
		})
	d.cache.EXPECT().Set(ctx, domain.BuildIdempotencyCacheKey(merchantID, "key-6"), response, domain.IdempotencyTTL).Return(nil)

	err := d.svc.Store(ctx, merchantID, "key-6", response)
	assert.NoError(t, err)
}

func TestIdempotencyService_Store_CacheFailureIsNotFatal(t *testing.T) {
	d := setupIdempotencyService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()

	d.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

	err := d.svc.Store(ctx, merchantID, "key-7", []byte("{}"))
	assert.NoError(t, err, "durable write succeeded, cache failure is logged only")
}
