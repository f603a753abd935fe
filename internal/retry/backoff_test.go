package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff_NextDelay(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithJitter(0),
	)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 100 * time.Millisecond},
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{500, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
	assert.Equal(t, 5, b.MaxAttempts())
}

func TestExponentialBackoff_Multiplier(t *testing.T) {
	b := NewExponentialBackoff(3, WithInitialDelay(10*time.Millisecond), WithMultiplier(3), WithJitter(0))
	assert.Equal(t, 90*time.Millisecond, b.NextDelay(2))
}

func TestExponentialBackoff_Jitter(t *testing.T) {
	low := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 0 }))
	high := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 1 }))
	mid := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.1), WithRandom(func() float64 { return 0.5 }))

	assert.Equal(t, 900*time.Millisecond, low.NextDelay(0))
	assert.Equal(t, 1100*time.Millisecond, high.NextDelay(0))
	assert.Equal(t, time.Second, mid.NextDelay(0))
}

func TestExponentialBackoff_JitterStaysInBounds(t *testing.T) {
	b := NewExponentialBackoff(1, WithInitialDelay(time.Second), WithJitter(0.2))
	for i := 0; i < 100; i++ {
		d := b.NextDelay(0)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}
