package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-gateway/pkg/apperror"

	goredis "github.com/redis/go-redis/v9"
)

// JobQueue implements ports.JobQueue on Redis lists. Producers RPUSH to the
// tail, consumers BLPOP from the head, so each queue is FIFO. A popped job
// that the consumer fails to finish is lost; delivery is at-least-once only
// because failed webhooks re-enter through the retry scheduler.
type JobQueue struct {
	client *goredis.Client
}

// NewJobQueue creates a Redis-backed job queue.
func NewJobQueue(client *goredis.Client) *JobQueue {
	return &JobQueue{client: client}
}

// Enqueue pushes a serialized job to the tail of the named queue.
func (q *JobQueue) Enqueue(ctx context.Context, queue string, payload []byte) error {
	if err := q.client.RPush(ctx, queue, payload).Err(); err != nil {
		return apperror.ErrQueueUnavailable(fmt.Errorf("rpush %s: %w", queue, err))
	}
	return nil
}

// DequeueBlocking pops from the head of the named queue, blocking up to
// timeout. Returns (nil, nil) when the timeout elapses with no job.
func (q *JobQueue) DequeueBlocking(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BLPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("blpop %s: %w", queue, err)
	}
	// BLPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("blpop %s: unexpected reply length %d", queue, len(res))
	}
	return []byte(res[1]), nil
}

// Len reports the number of waiting jobs on the named queue.
func (q *JobQueue) Len(ctx context.Context, queue string) (int64, error) {
	n, err := q.client.LLen(ctx, queue).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", queue, err)
	}
	return n, nil
}
