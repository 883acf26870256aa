package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ConfidenceZ is the critical value used for the 95% confidence interval of
// the mean. It is the large-sample normal value regardless of n; small
// samples get a slightly narrower interval than a Student-t correction would
// give.
const ConfidenceZ = 1.96

// DescriptiveSummary contains descriptive statistics for one sample.
type DescriptiveSummary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	P90      float64 `json:"p90"`
	P95      float64 `json:"p95"`
	P99      float64 `json:"p99"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
}

// Mean returns the arithmetic mean of s.
func Mean(s Sample) (float64, error) {
	if len(s) == 0 {
		return 0, ErrEmptySample
	}
	return stat.Mean(s, nil), nil
}

// Variance returns the sample variance of s using the n-1 divisor.
// It returns 0 when s has fewer than two observations.
func Variance(s Sample) float64 {
	if len(s) <= 1 || isConstant(s) {
		return 0
	}
	v := stat.Variance(s, nil)
	if v < 0 {
		// Compensated summation can leave a tiny negative residue.
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation of s.
func StdDev(s Sample) float64 {
	return math.Sqrt(Variance(s))
}

// Percentile returns the p-th percentile of s, with p in [0, 100].
//
// The value is read from a sorted copy at index floor(p/100 × (n-1)) without
// interpolating between neighbours, so tail percentiles of small samples are
// never inflated.
func Percentile(s Sample, p float64) (float64, error) {
	if len(s) == 0 {
		return 0, ErrEmptySample
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("%v: %w", p, ErrInvalidPercentile)
	}
	return percentileSorted(s.sortedCopy(), p), nil
}

// Median returns the middle value of s, averaging the two middle values
// when n is even.
func Median(s Sample) (float64, error) {
	if len(s) == 0 {
		return 0, ErrEmptySample
	}
	return medianSorted(s.sortedCopy()), nil
}

// ConfidenceInterval95 returns the 95% confidence interval of the mean,
// mean ± 1.96 × sd/√n.
func ConfidenceInterval95(s Sample) (lower, upper float64, err error) {
	mean, err := Mean(s)
	if err != nil {
		return 0, 0, err
	}
	margin := ConfidenceZ * StdDev(s) / math.Sqrt(float64(len(s)))
	return mean - margin, mean + margin, nil
}

// Describe computes descriptive statistics for a sample.
func Describe(s Sample) (*DescriptiveSummary, error) {
	if len(s) == 0 {
		return nil, ErrEmptySample
	}

	sorted := s.sortedCopy()
	mean := stat.Mean(s, nil)
	variance := Variance(s)
	sd := math.Sqrt(variance)
	margin := ConfidenceZ * sd / math.Sqrt(float64(len(s)))

	return &DescriptiveSummary{
		N:        len(s),
		Mean:     mean,
		Median:   medianSorted(sorted),
		StdDev:   sd,
		Variance: variance,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		P90:      percentileSorted(sorted, 90),
		P95:      percentileSorted(sorted, 95),
		P99:      percentileSorted(sorted, 99),
		CILower:  mean - margin,
		CIUpper:  mean + margin,
	}, nil
}

// isConstant reports whether every observation equals the first. Rounding in
// the mean of a constant sample would otherwise leave a spurious spread.
func isConstant(s Sample) bool {
	for _, v := range s[1:] {
		if v != s[0] {
			return false
		}
	}
	return true
}

func percentileSorted(sorted []float64, p float64) float64 {
	idx := int(math.Floor(p * float64(len(sorted)-1) / 100))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
