// Package compare decides whether the outputs of two candidates agree.
package compare

import "fmt"

// Policy is a tolerance rule. An element differs when the absolute
// difference of the two values exceeds MaxDifference. A strict policy passes
// only when no element differs; a non-strict one tolerates up to MaxOutliers
// differing elements.
type Policy struct {
	MaxDifference float64
	Strict        bool
	MaxOutliers   int
}

// Exact requires bit-identical integer outputs.
func Exact() Policy {
	return Policy{Strict: true}
}

// Within allows every element to differ by at most eps.
func Within(eps float64) Policy {
	return Policy{MaxDifference: eps, Strict: true}
}

// Outliers allows up to limit elements to differ by more than maxDiff.
func Outliers(maxDiff float64, limit int) Policy {
	return Policy{MaxDifference: maxDiff, MaxOutliers: limit}
}

// accepts reports whether n differing elements satisfy the policy.
func (p Policy) accepts(n int) bool {
	if p.Strict {
		return n == 0
	}
	return n <= p.MaxOutliers
}

func (p Policy) String() string {
	switch {
	case p.Strict && p.MaxDifference == 0:
		return "exact"
	case p.Strict:
		return fmt.Sprintf("within %g", p.MaxDifference)
	default:
		return fmt.Sprintf("at most %d outliers beyond %g", p.MaxOutliers, p.MaxDifference)
	}
}
