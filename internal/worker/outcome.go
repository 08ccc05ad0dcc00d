package worker

import (
	"math/rand"
	"sync"
	"time"

	"payment-gateway/config"
	"payment-gateway/internal/core/domain"
)

// OutcomeSource decides how a settlement attempt ends and how long the
// simulated bank leg takes. Split out so workers are deterministic under
// test.
type OutcomeSource interface {
	PaymentOutcome(method domain.PaymentMethod) bool
	PaymentDelay() time.Duration
	RefundDelay() time.Duration
}

// RandomOutcomes simulates bank behavior: UPI succeeds 90% of the time,
// other methods 95%, with settlement taking 5-10s and refunds 3-5s.
// One instance is shared by the payment and refund consumers, and
// rand.Rand is not safe for concurrent use, so access goes through mu.
type RandomOutcomes struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOutcomes creates a RandomOutcomes seeded from the clock.
func NewRandomOutcomes() *RandomOutcomes {
	return &RandomOutcomes{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *RandomOutcomes) PaymentOutcome(method domain.PaymentMethod) bool {
	p := 0.95
	if method == domain.PaymentMethodUPI {
		p = 0.90
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < p
}

func (r *RandomOutcomes) PaymentDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return 5*time.Second + time.Duration(r.rng.Int63n(int64(5*time.Second)))
}

func (r *RandomOutcomes) RefundDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return 3*time.Second + time.Duration(r.rng.Int63n(int64(2*time.Second)))
}

// FixedOutcomes is the test-mode source: a forced outcome and a short
// fixed delay, so settlement behavior is reproducible.
type FixedOutcomes struct {
	Success bool
	Delay   time.Duration
}

func (f FixedOutcomes) PaymentOutcome(domain.PaymentMethod) bool { return f.Success }

func (f FixedOutcomes) PaymentDelay() time.Duration { return f.Delay }

func (f FixedOutcomes) RefundDelay() time.Duration { return f.Delay }

// NewOutcomeSource picks the source matching the worker configuration.
func NewOutcomeSource(cfg config.WorkerConfig) OutcomeSource {
	if cfg.TestMode {
		return FixedOutcomes{Success: cfg.TestPaymentSuccess, Delay: cfg.TestDelay}
	}
	return NewRandomOutcomes()
}
