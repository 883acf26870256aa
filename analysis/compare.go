package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// DefaultAlpha is the significance level used to decide a direction.
const DefaultAlpha = 0.05

// Direction is the practical outcome of a comparison.
type Direction string

const (
	DirectionImprovement Direction = "improvement"
	DirectionRegression  Direction = "regression"
	DirectionNoChange    Direction = "no_change"
)

// Polarity states which way a metric improves.
type Polarity string

const (
	// HigherIsBetter suits throughput: a larger candidate mean is an improvement.
	HigherIsBetter Polarity = "higher_is_better"

	// LowerIsBetter suits latency: a smaller candidate mean is an improvement.
	LowerIsBetter Polarity = "lower_is_better"
)

// ComparisonVerdict is the full result of comparing a candidate sample
// against a baseline. A verdict is never modified after Compare returns it.
type ComparisonVerdict struct {
	// Test is the test that was selected.
	Test TestKind `json:"test"`

	// Result is a *WelchResult, *MannWhitneyResult or *Failure.
	Result TestResult `json:"result"`

	// PValue is copied from Result. It is 1 when the test failed.
	PValue float64 `json:"p_value"`

	// EffectSize is nil when the test failed.
	EffectSize *EffectSize `json:"effect_size,omitempty"`

	BaselineNormality  NormalityVerdict `json:"baseline_normality"`
	CandidateNormality NormalityVerdict `json:"candidate_normality"`

	BaselineMean  float64 `json:"baseline_mean"`
	CandidateMean float64 `json:"candidate_mean"`

	// PercentChange is (candidate - baseline) / baseline × 100, or 0 when
	// the baseline mean is 0.
	PercentChange float64 `json:"percent_change"`

	Direction Direction `json:"direction"`
}

// Failure returns the test failure, if any.
func (v *ComparisonVerdict) Failure() (*Failure, bool) {
	f, ok := v.Result.(*Failure)
	return f, ok
}

// Significant reports whether the comparison found a direction.
func (v *ComparisonVerdict) Significant() bool {
	return v.Direction != DirectionNoChange
}

// Summary returns a one-line human-readable summary of the verdict.
func (v *ComparisonVerdict) Summary() string {
	if f, ok := v.Failure(); ok {
		return fmt.Sprintf("%s: cannot compare (%s)", f.Test, f.Reason)
	}
	return fmt.Sprintf("%s: p=%.4f, %s %.2f (%s), change %+.1f%%, %s",
		v.Test, v.PValue,
		v.EffectSize.Kind, v.EffectSize.Value, v.EffectSize.Magnitude,
		v.PercentChange, v.Direction)
}

// CompareOption configures Compare.
type CompareOption func(*compareConfig)

type compareConfig struct {
	mode     PValueMode
	alpha    float64
	polarity Polarity
}

func defaultCompareConfig() compareConfig {
	return compareConfig{
		mode:     DefaultPValueMode,
		alpha:    DefaultAlpha,
		polarity: HigherIsBetter,
	}
}

// WithPValueMode selects exact or banded p-values. Default is exact.
// Unknown modes are ignored.
func WithPValueMode(m PValueMode) CompareOption {
	return func(c *compareConfig) {
		if m.Valid() {
			c.mode = m
		}
	}
}

// WithAlpha sets the significance level. Default is 0.05.
// Values outside (0, 1) are ignored.
func WithAlpha(alpha float64) CompareOption {
	return func(c *compareConfig) {
		if alpha > 0 && alpha < 1 {
			c.alpha = alpha
		}
	}
}

// WithPolarity sets which way the metric improves. Default is HigherIsBetter.
func WithPolarity(p Polarity) CompareOption {
	return func(c *compareConfig) {
		if p == HigherIsBetter || p == LowerIsBetter {
			c.polarity = p
		}
	}
}

// SelectTest returns the test Compare would run: Welch's t-test when both
// samples are approximately normal, Mann-Whitney otherwise.
func SelectTest(baseline, candidate Sample) TestKind {
	return selectTest(AssessNormality(baseline), AssessNormality(candidate))
}

func selectTest(baseline, candidate NormalityVerdict) TestKind {
	if baseline.IsNormal() && candidate.IsNormal() {
		return TestWelch
	}
	return TestMannWhitney
}

// Compare assesses both samples, runs the selected test, computes the
// matching effect size and decides a direction.
//
// A test failure is returned inside the verdict as a *Failure; Compare never
// falls back to the other test.
func Compare(baseline, candidate Sample, opts ...CompareOption) *ComparisonVerdict {
	cfg := defaultCompareConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &ComparisonVerdict{
		BaselineNormality:  AssessNormality(baseline),
		CandidateNormality: AssessNormality(candidate),
		PValue:             1,
		Direction:          DirectionNoChange,
	}
	v.Test = selectTest(v.BaselineNormality, v.CandidateNormality)

	if len(baseline) > 0 && len(candidate) > 0 {
		v.BaselineMean = stat.Mean(baseline, nil)
		v.CandidateMean = stat.Mean(candidate, nil)
		v.PercentChange = safePctDiff(v.CandidateMean, v.BaselineMean)
	}

	switch v.Test {
	case TestWelch:
		v.Result = WelchTTest(baseline, candidate, cfg.mode)
	default:
		v.Result = MannWhitneyUTest(baseline, candidate, cfg.mode)
	}

	switch r := v.Result.(type) {
	case *WelchResult:
		es := CohensD(baseline, candidate)
		v.EffectSize = &es
		v.PValue = r.PValue
	case *MannWhitneyResult:
		es := RankBiserial(r.U, len(baseline), len(candidate))
		v.EffectSize = &es
		v.PValue = r.PValue
	case *Failure:
		return v
	}

	if v.PValue < cfg.alpha {
		v.Direction = direction(v.CandidateMean, v.BaselineMean, cfg.polarity)
	}
	return v
}

func direction(candidateMean, baselineMean float64, polarity Polarity) Direction {
	better := candidateMean > baselineMean
	if polarity == LowerIsBetter {
		better = candidateMean < baselineMean
	}
	if better {
		return DirectionImprovement
	}
	return DirectionRegression
}

func safePctDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}
