package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffSchedule_ProductionSteps(t *testing.T) {
	b := NewBackoffSchedule(false)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Minute},
		{2, 5 * time.Minute},
		{3, 30 * time.Minute},
		{4, 2 * time.Hour},
	}
	for _, tc := range cases {
		wait, ok := b.Next(tc.attempt)
		assert.True(t, ok, "attempt %d should schedule a retry", tc.attempt)
		assert.Equal(t, tc.want, wait, "attempt %d", tc.attempt)
	}
}

func TestBackoffSchedule_TestSteps(t *testing.T) {
	b := NewBackoffSchedule(true)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{3, 15 * time.Second},
		{4, 20 * time.Second},
	}
	for _, tc := range cases {
		wait, ok := b.Next(tc.attempt)
		assert.True(t, ok)
		assert.Equal(t, tc.want, wait, "attempt %d", tc.attempt)
	}
}

func TestBackoffSchedule_ExhaustedAtMaxAttempts(t *testing.T) {
	b := NewBackoffSchedule(false)

	_, ok := b.Next(MaxDeliveryAttempts)
	assert.False(t, ok, "the final attempt must not schedule another retry")

	_, ok = b.Next(MaxDeliveryAttempts + 1)
	assert.False(t, ok)

	_, ok = b.Next(0)
	assert.False(t, ok, "zero attempts means nothing failed yet")
}
