package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=queue.go -destination=mocks/queue.go -package=mocks

// JobQueue is the durable FIFO job transport. Delivery is at-least-once:
// a consumer that dequeues and crashes before finishing loses the record
// (no acknowledgment mechanism), which is an accepted limitation.
type JobQueue interface {
	// Enqueue pushes a serialized job to the tail of the named queue.
	// Fails with apperror.ErrQueueUnavailable if the broker rejects the write.
	Enqueue(ctx context.Context, queue string, payload []byte) error
	// DequeueBlocking pops from the head of the named queue, blocking up to
	// timeout. Returns (nil, nil) when the timeout elapses with no record.
	DequeueBlocking(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
	// Len reports the number of waiting jobs on the named queue.
	Len(ctx context.Context, queue string) (int64, error)
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil when absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
