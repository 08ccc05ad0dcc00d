package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// RefundWorker settles pending refunds. Refunds always succeed once
// admitted; the worker only simulates the bank-side processing delay.
type RefundWorker struct {
	refundRepo ports.RefundRepository
	producer   ports.JobProducer
	outcomes   OutcomeSource
	log        zerolog.Logger
}

// NewRefundWorker creates a new RefundWorker.
func NewRefundWorker(
	refundRepo ports.RefundRepository,
	producer ports.JobProducer,
	outcomes OutcomeSource,
	log zerolog.Logger,
) *RefundWorker {
	return &RefundWorker{
		refundRepo: refundRepo,
		producer:   producer,
		outcomes:   outcomes,
		log:        log.With().Str("worker", "refunds").Logger(),
	}
}

// Process handles one refund settlement job.
func (w *RefundWorker) Process(ctx context.Context, payload []byte) error {
	var job domain.RefundJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode refund job: %w", err)
	}

	refund, err := w.refundRepo.GetByID(ctx, job.RefundID)
	if err != nil {
		return fmt.Errorf("load refund %s: %w", job.RefundID, err)
	}
	if refund == nil {
		w.log.Warn().Str("refund_id", job.RefundID).Msg("job references missing refund, dropping")
		return nil
	}
	if refund.Status == domain.RefundStatusProcessed {
		w.log.Debug().Str("refund_id", refund.ID).Msg("refund already processed, skipping")
		return nil
	}

	if err := sleepCtx(ctx, w.outcomes.RefundDelay()); err != nil {
		return err
	}

	now := time.Now().UTC()
	refund.Status = domain.RefundStatusProcessed
	refund.ProcessedAt = &now

	if err := w.refundRepo.Update(ctx, refund); err != nil {
		return fmt.Errorf("update refund %s: %w", refund.ID, err)
	}

	w.log.Info().
		Str("refund_id", refund.ID).
		Int64("amount", refund.Amount).
		Msg("refund processed")

	return emitEvent(ctx, w.producer, refund.MerchantID, domain.EventRefundProcessed, map[string]any{"refund": refund})
}
