package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"payment-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// Processor handles one dequeued job payload.
type Processor interface {
	Process(ctx context.Context, payload []byte) error
}

// consumer binds a queue name to its processor.
type consumer struct {
	queue string
	proc  Processor
}

// Runner owns the consumer goroutines (one per queue) and the retry
// scheduler. A job failure is logged and the loop moves on; a malformed or
// failing job must never take its consumer down.
type Runner struct {
	queue       ports.JobQueue
	consumers   []consumer
	scheduler   *RetryScheduler
	pollTimeout time.Duration
	grace       time.Duration
	log         zerolog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(queue ports.JobQueue, scheduler *RetryScheduler, pollTimeout, grace time.Duration, log zerolog.Logger) *Runner {
	return &Runner{
		queue:       queue,
		scheduler:   scheduler,
		pollTimeout: pollTimeout,
		grace:       grace,
		log:         log,
	}
}

// Register adds a consumer for the named queue. Must be called before Run.
func (r *Runner) Register(queue string, proc Processor) {
	r.consumers = append(r.consumers, consumer{queue: queue, proc: proc})
}

// Run starts all consumers and the scheduler, then blocks until ctx is
// cancelled. On cancellation it waits up to the shutdown grace for
// in-flight jobs; a job still running after that is abandoned (its queue
// record is already popped, which the at-least-once model accepts).
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, c := range r.consumers {
		wg.Add(1)
		go func(c consumer) {
			defer wg.Done()
			r.consume(ctx, c)
		}(c)
	}

	if r.scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.scheduler.Run(ctx)
		}()
	}

	<-ctx.Done()
	r.log.Info().Dur("grace", r.grace).Msg("shutting down workers")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info().Msg("all workers stopped")
	case <-time.After(r.grace):
		r.log.Warn().Msg("shutdown grace elapsed, abandoning in-flight jobs")
	}
}

// consume is one queue's poll loop.
func (r *Runner) consume(ctx context.Context, c consumer) {
	log := r.log.With().Str("queue", c.queue).Logger()
	log.Info().Msg("consumer started")

	for {
		if ctx.Err() != nil {
			log.Info().Msg("consumer stopped")
			return
		}

		payload, err := r.queue.DequeueBlocking(ctx, c.queue, r.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info().Msg("consumer stopped")
				return
			}
			log.Error().Err(err).Msg("dequeue failed")
			// Broker hiccup: back off briefly instead of spinning.
			if err := sleepCtx(ctx, time.Second); err != nil {
				return
			}
			continue
		}
		if payload == nil {
			continue
		}

		if err := c.proc.Process(ctx, payload); err != nil {
			if errors.Is(err, context.Canceled) {
				log.Warn().Msg("job interrupted by shutdown, record is lost")
				return
			}
			log.Error().Err(err).Msg("job failed")
		}
	}
}
