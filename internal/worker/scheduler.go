package worker

import (
	"context"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// retrySweepBatch bounds how many due deliveries one sweep re-enqueues.
const retrySweepBatch = 100

// RetryScheduler periodically sweeps the delivery logs for due retries and
// feeds them back into the webhook queue. After re-enqueueing it bumps
// next_retry_at by a short lease so the next sweep does not pick the same
// row up again before the worker gets to it. The bump is a lease, not a
// backoff step: only the delivery engine advances attempts and schedule.
type RetryScheduler struct {
	webhookRepo ports.WebhookRepository
	producer    ports.JobProducer
	interval    time.Duration
	lease       time.Duration
	log         zerolog.Logger
}

// NewRetryScheduler creates a new RetryScheduler.
func NewRetryScheduler(
	webhookRepo ports.WebhookRepository,
	producer ports.JobProducer,
	interval time.Duration,
	lease time.Duration,
	log zerolog.Logger,
) *RetryScheduler {
	return &RetryScheduler{
		webhookRepo: webhookRepo,
		producer:    producer,
		interval:    interval,
		lease:       lease,
		log:         log.With().Str("worker", "retry-scheduler").Logger(),
	}
}

// Run sweeps on a fixed tick until ctx is cancelled.
func (s *RetryScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("retry scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("retry scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep re-enqueues every delivery whose retry is due. Errors are logged
// and the sweep moves on; a missed row is picked up by a later sweep.
func (s *RetryScheduler) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	due, err := s.webhookRepo.FindDueRetries(ctx, now, retrySweepBatch)
	if err != nil {
		s.log.Error().Err(err).Msg("finding due retries failed")
		return
	}

	for i := range due {
		wlog := &due[i]
		job := domain.WebhookJob{
			MerchantID:   wlog.MerchantID,
			Event:        wlog.Event,
			Payload:      wlog.Payload,
			WebhookLogID: &wlog.ID,
		}
		if err := s.producer.EnqueueWebhook(ctx, job); err != nil {
			s.log.Error().Err(err).Str("webhook_log_id", wlog.ID.String()).Msg("re-enqueueing retry failed")
			continue
		}
		if err := s.webhookRepo.UpdateNextRetryAt(ctx, wlog.ID, now.Add(s.lease)); err != nil {
			// The job is already queued; a failed lease bump risks one
			// duplicate delivery attempt, which at-least-once tolerates.
			s.log.Error().Err(err).Str("webhook_log_id", wlog.ID.String()).Msg("bumping retry lease failed")
		}
	}

	if len(due) > 0 {
		s.log.Info().Int("count", len(due)).Msg("due webhook retries re-enqueued")
	}
}
