package retry

import (
	"context"
	"math"
	"time"
)

// Strategy computes the delay that follows a failed attempt.
// attempt is the 1-based number of the attempt that just failed.
type Strategy interface {
	NextInterval(attempt int) time.Duration
}

// Exponential grows delays geometrically: Initial * Multiplier^(attempt-1),
// capped at Max. Zero fields fall back to 1s, 2x and 30s.
type Exponential struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (e Exponential) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.Initial
	if initial <= 0 {
		initial = time.Second
	}
	maxInterval := e.Max
	if maxInterval <= 0 {
		maxInterval = 30 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if interval > float64(maxInterval) {
		return maxInterval
	}
	return time.Duration(interval)
}

// Constant waits the same interval after every failure.
type Constant time.Duration

func (c Constant) NextInterval(int) time.Duration { return time.Duration(c) }

// SleepFunc blocks for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
