// Package analysis implements the statistical decision pipeline used to
// compare a baseline load-test sample against a candidate sample.
//
// The pipeline summarizes each sample, checks whether both are approximately
// normal, picks Welch's t-test or the Mann-Whitney U test accordingly,
// computes an effect size and renders a ComparisonVerdict. Every function in
// this package is a pure computation over its inputs; samples are never
// mutated and no state is shared between calls, so comparisons may run
// concurrently without coordination.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrEmptySample indicates a zero-length sample was passed to a function
	// that needs at least one observation.
	ErrEmptySample = errors.New("analysis: empty sample")

	// ErrInsufficientData indicates a sample is too small for the requested test.
	ErrInsufficientData = errors.New("analysis: insufficient data")

	// ErrZeroVariance indicates a test statistic is undefined because the
	// samples have no spread.
	ErrZeroVariance = errors.New("analysis: zero variance")

	// ErrInvalidPercentile indicates a percentile outside [0, 100].
	ErrInvalidPercentile = errors.New("analysis: percentile out of range")

	// ErrNonFinite indicates a sample contains NaN or an infinity.
	ErrNonFinite = errors.New("analysis: non-finite value in sample")
)

// Sample is an ordered sequence of observations from one test run.
// Values may repeat. Functions in this package treat a Sample as read-only.
type Sample []float64

// Len returns the number of observations.
func (s Sample) Len() int {
	return len(s)
}

// Validate reports whether every observation is finite.
func (s Sample) Validate() error {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("index %d: %w", i, ErrNonFinite)
		}
	}
	return nil
}

// sortedCopy returns an ascending copy of s.
func (s Sample) sortedCopy() []float64 {
	sorted := make([]float64, len(s))
	copy(sorted, s)
	sort.Float64s(sorted)
	return sorted
}
