package service

import (
	"context"
	"encoding/json"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
)

// QueueJobProducer implements ports.JobProducer over the job queue.
// It owns the wire encoding: one JSON object per job, one queue per kind.
type QueueJobProducer struct {
	queue ports.JobQueue
}

// NewQueueJobProducer creates a new QueueJobProducer.
func NewQueueJobProducer(queue ports.JobQueue) *QueueJobProducer {
	return &QueueJobProducer{queue: queue}
}

// EnqueuePayment pushes a payment settlement job.
func (p *QueueJobProducer) EnqueuePayment(ctx context.Context, job domain.PaymentJob) error {
	return p.enqueue(ctx, domain.QueuePayments, job)
}

// EnqueueRefund pushes a refund settlement job.
func (p *QueueJobProducer) EnqueueRefund(ctx context.Context, job domain.RefundJob) error {
	return p.enqueue(ctx, domain.QueueRefunds, job)
}

// EnqueueWebhook pushes a webhook delivery job.
func (p *QueueJobProducer) EnqueueWebhook(ctx context.Context, job domain.WebhookJob) error {
	return p.enqueue(ctx, domain.QueueWebhooks, job)
}

func (p *QueueJobProducer) enqueue(ctx context.Context, queue string, job any) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return apperror.ErrSerializationFailure(err)
	}
	return p.queue.Enqueue(ctx, queue, payload)
}
