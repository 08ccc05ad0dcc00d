package service

import (
	"context"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdempotencyServiceImpl implements ports.IdempotencyService with a Redis
// fast path over a durable PostgreSQL record. Identity is the composite
// (key, merchant); expired rows are deleted lazily on read, there is no
// background sweeper.
type IdempotencyServiceImpl struct {
	cache ports.IdempotencyCache
	repo  ports.IdempotencyRepository
	log   zerolog.Logger
}

// NewIdempotencyService creates a new IdempotencyServiceImpl.
func NewIdempotencyService(cache ports.IdempotencyCache, repo ports.IdempotencyRepository, log zerolog.Logger) *IdempotencyServiceImpl {
	return &IdempotencyServiceImpl{cache: cache, repo: repo, log: log}
}

// CheckAndReturn yields the stored response for a live (key, merchant)
// record, or nil if the caller should process the request fresh.
func (s *IdempotencyServiceImpl) CheckAndReturn(ctx context.Context, merchantID uuid.UUID, key string) ([]byte, error) {
	cacheKey := domain.BuildIdempotencyCacheKey(merchantID, key)

	// Redis fast path. Cache errors degrade to the durable store.
	cached, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("idempotency cache read failed, falling back to database")
	} else if cached != nil {
		return cached, nil
	}

	rec, err := s.repo.Get(ctx, merchantID, key)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get idempotency record: %w", err))
	}
	if rec == nil {
		return nil, nil
	}
	if rec.Expired(time.Now()) {
		// Lazy expiry: drop the stale row and treat the request as fresh.
		if err := s.repo.Delete(ctx, merchantID, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("deleting expired idempotency record failed")
		}
		return nil, nil
	}

	// Re-prime the cache with the remaining TTL.
	if ttl := time.Until(rec.ExpiresAt); ttl > 0 {
		if err := s.cache.Set(ctx, cacheKey, rec.Response, ttl); err != nil {
			s.log.Warn().Err(err).Msg("idempotency cache re-prime failed")
		}
	}

	return rec.Response, nil
}

// Store caches the serialized response for subsequent retries. The database
// write is authoritative; a cache failure is logged, not surfaced.
func (s *IdempotencyServiceImpl) Store(ctx context.Context, merchantID uuid.UUID, key string, response []byte) error {
	now := time.Now().UTC()
	rec := &domain.IdempotencyRecord{
		Key:        key,
		MerchantID: merchantID,
		Response:   response,
		CreatedAt:  now,
		ExpiresAt:  now.Add(domain.IdempotencyTTL),
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("store idempotency record: %w", err))
	}

	if err := s.cache.Set(ctx, rec.CacheKey(), response, domain.IdempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache write failed")
	}
	return nil
}
