// Package backoff provides retry delay strategies for failed jobs.
// Strategies are stateless and safe for concurrent use.
package backoff

import (
	"math"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns how long to wait before retry attempt n (1-indexed):
	// attempt 1 is the first retry after the initial failure.
	Delay(attempt int) time.Duration
}

// Exponential doubles the delay on each attempt:
// Delay = Base * 2^(attempt-1).
//
// Max caps the delay when non-zero. The default (0) is uncapped, so high
// attempt counts produce very long waits; set Max when that matters.
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

// NewExponential creates an uncapped exponential backoff strategy.
func NewExponential(base time.Duration) *Exponential {
	return &Exponential{Base: base}
}

// Delay returns Base * 2^(attempt-1), capped at Max when Max > 0.
func (e *Exponential) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(e.Base) * math.Pow(2, float64(attempt-1)))
	if e.Max > 0 && d > e.Max {
		return e.Max
	}
	return d
}

// Fixed always returns the same delay regardless of attempt number.
// Mostly useful in tests.
type Fixed struct {
	Interval time.Duration
}

// NewFixed creates a fixed backoff strategy.
func NewFixed(interval time.Duration) *Fixed {
	return &Fixed{Interval: interval}
}

// Delay returns the fixed interval.
func (f *Fixed) Delay(_ int) time.Duration {
	return f.Interval
}

// DefaultBase is the backoff base used when none is configured,
// matching the CLI default of 5 seconds.
const DefaultBase = 5 * time.Second
