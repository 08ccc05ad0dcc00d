package service

import (
	"context"
	"fmt"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
)

// JobStatusServiceImpl implements ports.JobStatusService by inspecting
// queue lengths directly on the broker.
type JobStatusServiceImpl struct {
	queue ports.JobQueue
}

// NewJobStatusService creates a new JobStatusServiceImpl.
func NewJobStatusService(queue ports.JobQueue) *JobStatusServiceImpl {
	return &JobStatusServiceImpl{queue: queue}
}

// QueueDepths reports the number of waiting jobs per queue.
func (s *JobStatusServiceImpl) QueueDepths(ctx context.Context) (map[string]int64, error) {
	depths := make(map[string]int64, 3)
	for _, q := range []string{domain.QueuePayments, domain.QueueRefunds, domain.QueueWebhooks} {
		n, err := s.queue.Len(ctx, q)
		if err != nil {
			return nil, apperror.ErrQueueUnavailable(fmt.Errorf("queue depth %s: %w", q, err))
		}
		depths[q] = n
	}
	return depths, nil
}
