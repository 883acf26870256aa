package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MinWelchSampleSize is the smallest per-sample size Welch's test accepts.
const MinWelchSampleSize = 2

// fallbackDF replaces a degenerate Welch-Satterthwaite denominator.
const fallbackDF = 30

// WelchTTest performs Welch's unequal-variance t-test of baseline against
// candidate. The statistic is (mean1 - mean2) / se, so a candidate with a
// larger mean produces a negative t.
func WelchTTest(baseline, candidate Sample, mode PValueMode) TestResult {
	n1, n2 := float64(len(baseline)), float64(len(candidate))
	if len(baseline) < MinWelchSampleSize || len(candidate) < MinWelchSampleSize {
		return &Failure{Test: TestWelch, Reason: ReasonInsufficientData}
	}

	mean1 := stat.Mean(baseline, nil)
	mean2 := stat.Mean(candidate, nil)
	s1 := Variance(baseline) / n1
	s2 := Variance(candidate) / n2

	se := math.Sqrt(s1 + s2)
	if se == 0 {
		return &Failure{Test: TestWelch, Reason: ReasonZeroVariance}
	}

	t := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom.
	df := float64(fallbackDF)
	if den := s1*s1/(n1-1) + s2*s2/(n2-1); den > 0 {
		df = (s1 + s2) * (s1 + s2) / den
	}

	mode = mode.orDefault()
	return &WelchResult{
		TStatistic:       t,
		DegreesOfFreedom: df,
		PValue:           tPValue(t, df, mode),
		Mode:             mode,
	}
}
