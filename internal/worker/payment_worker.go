package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentWorker settles pending payments: it simulates the bank leg, moves
// the payment to a terminal state and emits the corresponding webhook event.
type PaymentWorker struct {
	paymentRepo ports.PaymentRepository
	producer    ports.JobProducer
	outcomes    OutcomeSource
	log         zerolog.Logger
}

// NewPaymentWorker creates a new PaymentWorker.
func NewPaymentWorker(
	paymentRepo ports.PaymentRepository,
	producer ports.JobProducer,
	outcomes OutcomeSource,
	log zerolog.Logger,
) *PaymentWorker {
	return &PaymentWorker{
		paymentRepo: paymentRepo,
		producer:    producer,
		outcomes:    outcomes,
		log:         log.With().Str("worker", "payments").Logger(),
	}
}

// Process handles one payment settlement job.
func (w *PaymentWorker) Process(ctx context.Context, payload []byte) error {
	var job domain.PaymentJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode payment job: %w", err)
	}

	payment, err := w.paymentRepo.GetByID(ctx, job.PaymentID)
	if err != nil {
		return fmt.Errorf("load payment %s: %w", job.PaymentID, err)
	}
	if payment == nil {
		w.log.Warn().Str("payment_id", job.PaymentID).Msg("job references missing payment, dropping")
		return nil
	}
	// Redelivered jobs for already-settled payments are no-ops.
	if payment.IsTerminal() {
		w.log.Debug().Str("payment_id", payment.ID).Str("status", string(payment.Status)).
			Msg("payment already settled, skipping")
		return nil
	}

	if err := sleepCtx(ctx, w.outcomes.PaymentDelay()); err != nil {
		return err
	}

	event := domain.EventPaymentSuccess
	if w.outcomes.PaymentOutcome(payment.Method) {
		payment.Status = domain.PaymentStatusSuccess
	} else {
		payment.Status = domain.PaymentStatusFailed
		code := "PAYMENT_FAILED"
		desc := "Payment failed due to bank rejection"
		payment.ErrorCode = &code
		payment.ErrorDescription = &desc
		event = domain.EventPaymentFailed
	}
	payment.UpdatedAt = time.Now().UTC()

	if err := w.paymentRepo.Update(ctx, payment); err != nil {
		return fmt.Errorf("update payment %s: %w", payment.ID, err)
	}

	w.log.Info().
		Str("payment_id", payment.ID).
		Str("status", string(payment.Status)).
		Msg("payment settled")

	return emitEvent(ctx, w.producer, payment.MerchantID, event, map[string]any{"payment": payment})
}

// emitEvent enqueues exactly one webhook job for a settled entity. Whether
// the merchant actually has an endpoint is the delivery engine's concern;
// settlement always hands the event off.
func emitEvent(ctx context.Context, producer ports.JobProducer, merchantID uuid.UUID, event string, data map[string]any) error {
	body := domain.WebhookEventBody{
		Event:     event,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	return producer.EnqueueWebhook(ctx, domain.WebhookJob{
		MerchantID: merchantID,
		Event:      event,
		Payload:    payload,
	})
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
