package analysis

import "math"

// MinMannWhitneySampleSize is the smallest per-sample size the U test accepts.
const MinMannWhitneySampleSize = 3

// MannWhitneyUTest performs the Mann-Whitney U test on two samples.
// This is a non-parametric test to determine if two samples come from
// different distributions.
//
// The p-value uses the normal approximation of U with a 0.5 continuity
// correction toward the mean of U.
func MannWhitneyUTest(baseline, candidate Sample, mode PValueMode) TestResult {
	if len(baseline) < MinMannWhitneySampleSize || len(candidate) < MinMannWhitneySampleSize {
		return &Failure{Test: TestMannWhitney, Reason: ReasonInsufficientData}
	}

	n1 := float64(len(baseline))
	n2 := float64(len(candidate))

	ranking := Rank(baseline, candidate)

	u1 := ranking.R1 - n1*(n1+1)/2
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12)
	if sigma == 0 {
		return &Failure{Test: TestMannWhitney, Reason: ReasonZeroVariance}
	}

	corrected := u - 0.5
	if u < mu {
		corrected = u + 0.5
	}
	z := (corrected - mu) / sigma

	mode = mode.orDefault()
	return &MannWhitneyResult{
		U:      u,
		U1:     u1,
		U2:     u2,
		ZScore: z,
		PValue: zPValue(z, mode),
		Mode:   mode,
	}
}
