// Package perf measures candidate calls and aggregates their cost.
package perf

import (
	"time"
)

// Sample is the timing of one measured call site.
type Sample struct {
	Label      string        `json:"label"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
}

// PerCall returns the mean duration of a single call.
func (s Sample) PerCall() time.Duration {
	if s.Iterations == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Iterations)
}

// Throughput returns calls per second.
func (s Sample) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Iterations) / s.Elapsed.Seconds()
}

// Measure invokes call repeatedly until the accumulated timed duration
// reaches budget, and at least once. prepare, if not nil, runs before every
// call outside the timed region. Measure cannot be cancelled.
func Measure(label string, budget time.Duration, prepare, call func()) Sample {
	s := Sample{Label: label}
	for {
		if prepare != nil {
			prepare()
		}
		start := time.Now()
		call()
		s.Elapsed += time.Since(start)
		s.Iterations++
		if s.Elapsed >= budget {
			return s
		}
	}
}
