package analysis

import "fmt"

// TestKind names a two-sample hypothesis test.
type TestKind string

const (
	TestWelch       TestKind = "welch"
	TestMannWhitney TestKind = "mann_whitney"
)

// FailureReason explains why a test produced no statistic.
type FailureReason string

const (
	ReasonInsufficientData FailureReason = "insufficient_data"
	ReasonZeroVariance     FailureReason = "zero_variance"
)

// TestResult is the outcome of a two-sample test. It is one of
// *WelchResult, *MannWhitneyResult or *Failure.
type TestResult interface {
	// Kind returns the test that produced the result.
	Kind() TestKind

	testResult()
}

// WelchResult contains the result of Welch's unequal-variance t-test.
type WelchResult struct {
	TStatistic       float64    `json:"t_statistic"`
	DegreesOfFreedom float64    `json:"degrees_of_freedom"`
	PValue           float64    `json:"p_value"`
	Mode             PValueMode `json:"p_value_mode"`
}

// MannWhitneyResult contains the result of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U      float64    `json:"u_statistic"` // min(U1, U2).
	U1     float64    `json:"u1"`
	U2     float64    `json:"u2"`
	ZScore float64    `json:"z_score"` // Continuity-corrected.
	PValue float64    `json:"p_value"`
	Mode   PValueMode `json:"p_value_mode"`
}

// Failure reports a test that could not be computed. It implements error
// and unwraps to ErrInsufficientData or ErrZeroVariance.
type Failure struct {
	Test   TestKind      `json:"test"`
	Reason FailureReason `json:"failure"`
}

// Compile-time checks that the variants implement TestResult.
var (
	_ TestResult = (*WelchResult)(nil)
	_ TestResult = (*MannWhitneyResult)(nil)
	_ TestResult = (*Failure)(nil)
	_ error      = (*Failure)(nil)
)

func (*WelchResult) Kind() TestKind       { return TestWelch }
func (*MannWhitneyResult) Kind() TestKind { return TestMannWhitney }
func (f *Failure) Kind() TestKind         { return f.Test }

func (*WelchResult) testResult()       {}
func (*MannWhitneyResult) testResult() {}
func (*Failure) testResult()           {}

func (f *Failure) Error() string {
	return fmt.Sprintf("analysis: %s test failed: %s", f.Test, f.Reason)
}

func (f *Failure) Unwrap() error {
	switch f.Reason {
	case ReasonInsufficientData:
		return ErrInsufficientData
	case ReasonZeroVariance:
		return ErrZeroVariance
	default:
		return nil
	}
}

// PValueOf returns the p-value of a successful result.
// It returns false for a *Failure.
func PValueOf(r TestResult) (float64, bool) {
	switch r := r.(type) {
	case *WelchResult:
		return r.PValue, true
	case *MannWhitneyResult:
		return r.PValue, true
	default:
		return 0, false
	}
}
