package worker

import "time"

// MaxDeliveryAttempts bounds the webhook retry cycle. After the fifth
// failed attempt a delivery is terminally failed and only a manual retry
// can revive it.
const MaxDeliveryAttempts = 5

var (
	productionBackoff = []time.Duration{
		1 * time.Minute,
		5 * time.Minute,
		30 * time.Minute,
		2 * time.Hour,
	}
	// Seconds-scale schedule so retry behavior is observable in test runs.
	testBackoff = []time.Duration{
		5 * time.Second,
		10 * time.Second,
		15 * time.Second,
		20 * time.Second,
	}
)

// BackoffSchedule maps a completed attempt count to the wait before the
// next delivery attempt.
type BackoffSchedule struct {
	steps []time.Duration
}

// NewBackoffSchedule returns the fixed delivery backoff schedule.
// testMode selects the seconds-scale variant.
func NewBackoffSchedule(testMode bool) BackoffSchedule {
	if testMode {
		return BackoffSchedule{steps: testBackoff}
	}
	return BackoffSchedule{steps: productionBackoff}
}

// Next returns the wait after the given 1-based failed attempt, or false
// when the attempt count has exhausted the schedule (terminal failure).
func (b BackoffSchedule) Next(attempt int) (time.Duration, bool) {
	if attempt < 1 || attempt >= MaxDeliveryAttempts {
		return 0, false
	}
	idx := attempt - 1
	if idx >= len(b.steps) {
		idx = len(b.steps) - 1
	}
	return b.steps[idx], true
}
