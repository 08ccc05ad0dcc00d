package service

import (
	"context"
	"fmt"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebhookServiceImpl implements ports.WebhookService: the dashboard surface
// over delivery logs.
type WebhookServiceImpl struct {
	webhookRepo ports.WebhookRepository
	producer    ports.JobProducer
	log         zerolog.Logger
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(webhookRepo ports.WebhookRepository, producer ports.JobProducer, log zerolog.Logger) *WebhookServiceImpl {
	return &WebhookServiceImpl{webhookRepo: webhookRepo, producer: producer, log: log}
}

// ListLogs returns the merchant's delivery logs, newest first.
func (s *WebhookServiceImpl) ListLogs(ctx context.Context, merchantID uuid.UUID, limit, offset int) ([]domain.WebhookDeliveryLog, int64, error) {
	logs, total, err := s.webhookRepo.ListByMerchant(ctx, merchantID, limit, offset)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list webhook logs: %w", err))
	}
	return logs, total, nil
}

// RetryDelivery resets a delivery log to a fresh state (pending, zero
// attempts, no scheduled retry) and enqueues a delivery job that reuses the
// log. Works on any log regardless of current status, so a permanently
// failed delivery gets a full new retry cycle.
func (s *WebhookServiceImpl) RetryDelivery(ctx context.Context, merchantID uuid.UUID, logID uuid.UUID) (*domain.WebhookDeliveryLog, error) {
	wlog, err := s.webhookRepo.GetByID(ctx, logID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get webhook log: %w", err))
	}
	if wlog == nil || wlog.MerchantID != merchantID {
		return nil, apperror.ErrNotFound("webhook log")
	}

	wlog.Status = domain.WebhookStatusPending
	wlog.Attempts = 0
	wlog.NextRetryAt = nil
	if err := s.webhookRepo.Update(ctx, wlog); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("reset webhook log: %w", err))
	}

	job := domain.WebhookJob{
		MerchantID:   wlog.MerchantID,
		Event:        wlog.Event,
		Payload:      wlog.Payload,
		WebhookLogID: &wlog.ID,
	}
	if err := s.producer.EnqueueWebhook(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("webhook_log_id", wlog.ID.String()).
		Str("event", wlog.Event).
		Msg("manual webhook retry enqueued")

	return wlog, nil
}
