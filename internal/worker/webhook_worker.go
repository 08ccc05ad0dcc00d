package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxResponseBodyBytes caps how much of the merchant's response is stored
// on the delivery log.
const maxResponseBodyBytes = 4096

// HTTPClient is the subset of http.Client the delivery engine uses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookWorker is the delivery engine: it POSTs signed events to merchant
// endpoints and drives the per-delivery retry state machine.
type WebhookWorker struct {
	webhookRepo  ports.WebhookRepository
	merchantRepo ports.MerchantRepository
	sigSvc       ports.SignatureService
	client       HTTPClient
	backoff      BackoffSchedule
	timeout      time.Duration
	log          zerolog.Logger
}

// NewWebhookWorker creates a new WebhookWorker.
func NewWebhookWorker(
	webhookRepo ports.WebhookRepository,
	merchantRepo ports.MerchantRepository,
	sigSvc ports.SignatureService,
	client HTTPClient,
	backoff BackoffSchedule,
	timeout time.Duration,
	log zerolog.Logger,
) *WebhookWorker {
	return &WebhookWorker{
		webhookRepo:  webhookRepo,
		merchantRepo: merchantRepo,
		sigSvc:       sigSvc,
		client:       client,
		backoff:      backoff,
		timeout:      timeout,
		log:          log.With().Str("worker", "webhooks").Logger(),
	}
}

// Process handles one delivery job: a single attempt against the merchant
// endpoint, then the state transition the outcome dictates.
func (w *WebhookWorker) Process(ctx context.Context, payload []byte) error {
	var job domain.WebhookJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode webhook job: %w", err)
	}

	merchant, err := w.merchantRepo.GetByID(ctx, job.MerchantID)
	if err != nil {
		return fmt.Errorf("load merchant %s: %w", job.MerchantID, err)
	}
	if merchant == nil {
		w.log.Warn().Str("merchant_id", job.MerchantID.String()).Msg("job references missing merchant, dropping")
		return nil
	}
	if !merchant.HasWebhook() {
		w.log.Warn().Str("merchant_id", merchant.ID.String()).Msg("merchant has no webhook endpoint, dropping")
		return nil
	}

	wlog, isNew, err := w.resolveLog(ctx, job)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	wlog.Attempts++
	wlog.LastAttemptAt = &now

	code, body := w.attempt(ctx, *merchant.WebhookURL, merchant.WebhookSecret, wlog.Payload)
	wlog.ResponseCode = &code
	wlog.ResponseBody = &body

	if code >= 200 && code < 300 {
		wlog.Status = domain.WebhookStatusSuccess
		wlog.NextRetryAt = nil
		w.log.Info().
			Str("webhook_log_id", wlog.ID.String()).
			Str("event", wlog.Event).
			Int("attempts", wlog.Attempts).
			Msg("webhook delivered")
	} else if wait, ok := w.backoff.Next(wlog.Attempts); ok {
		next := now.Add(wait)
		wlog.Status = domain.WebhookStatusPending
		wlog.NextRetryAt = &next
		w.log.Warn().
			Str("webhook_log_id", wlog.ID.String()).
			Int("attempts", wlog.Attempts).
			Int("response_code", code).
			Time("next_retry_at", next).
			Msg("webhook delivery failed, retry scheduled")
	} else {
		wlog.Status = domain.WebhookStatusFailed
		wlog.NextRetryAt = nil
		w.log.Error().
			Str("webhook_log_id", wlog.ID.String()).
			Int("attempts", wlog.Attempts).
			Int("response_code", code).
			Msg("webhook delivery failed permanently")
	}

	if isNew {
		if err := w.webhookRepo.Create(ctx, wlog); err != nil {
			return fmt.Errorf("create webhook log: %w", err)
		}
		return nil
	}
	if err := w.webhookRepo.Update(ctx, wlog); err != nil {
		return fmt.Errorf("update webhook log: %w", err)
	}
	return nil
}

// resolveLog reuses the job's referenced log (retry path) or starts a
// fresh one. A referenced log that no longer exists also gets a fresh
// record rather than losing the delivery.
func (w *WebhookWorker) resolveLog(ctx context.Context, job domain.WebhookJob) (*domain.WebhookDeliveryLog, bool, error) {
	if job.WebhookLogID != nil {
		wlog, err := w.webhookRepo.GetByID(ctx, *job.WebhookLogID)
		if err != nil {
			return nil, false, fmt.Errorf("load webhook log %s: %w", job.WebhookLogID, err)
		}
		if wlog != nil {
			return wlog, false, nil
		}
		w.log.Warn().Str("webhook_log_id", job.WebhookLogID.String()).Msg("job references missing webhook log, starting fresh record")
	}

	now := time.Now().UTC()
	return &domain.WebhookDeliveryLog{
		ID:         uuid.New(),
		MerchantID: job.MerchantID,
		Event:      job.Event,
		Payload:    job.Payload,
		Status:     domain.WebhookStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, true, nil
}

// attempt POSTs the payload once. A transport failure is recorded as code
// 0 with the error text as body; it walks the same retry path as an HTTP
// error status.
func (w *WebhookWorker) attempt(ctx context.Context, url, secret string, payload []byte) (int, string) {
	reqCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", w.sigSvc.Sign(secret, payload))

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err.Error()
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	return resp.StatusCode, string(body)
}
