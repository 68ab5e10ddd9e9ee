package fetch

import (
	"math"
	"time"
)

// Backoff computes exponential waits: Multiplier * 2^(n-1), clamped to
// [Min, Max], where n is the number of failed attempts so far.
type Backoff struct {
	Multiplier time.Duration
	Min        time.Duration
	Max        time.Duration
}

// DefaultBackoff waits 1s, 1.6s, 3.2s, ... capped at 6s.
func DefaultBackoff() Backoff {
	return Backoff{Multiplier: 800 * time.Millisecond, Min: time.Second, Max: 6 * time.Second}
}

// Delay returns the wait after the n-th failed attempt.
func (b Backoff) Delay(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	d := float64(b.Multiplier) * math.Pow(2, float64(n-1))
	if b.Max > 0 && d > float64(b.Max) {
		d = float64(b.Max)
	}
	if d < float64(b.Min) {
		d = float64(b.Min)
	}
	return time.Duration(d)
}
