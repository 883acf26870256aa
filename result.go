package loadstat

import (
	"time"

	"github.com/discochess/loadstat/analysis"
)

// ScenarioResult is the outcome of comparing one scenario's candidate
// against its stored baseline.
type ScenarioResult struct {
	Scenario string `json:"scenario"`

	// RecordedAt is when the baseline was saved.
	RecordedAt time.Time `json:"recorded_at,omitzero"`

	Baseline  *analysis.DescriptiveSummary `json:"baseline,omitempty"`
	Candidate *analysis.DescriptiveSummary `json:"candidate,omitempty"`

	// Verdict is nil when Missing is set or Err is non-nil.
	Verdict *analysis.ComparisonVerdict `json:"verdict,omitempty"`

	// Missing is set when the scenario has no stored baseline.
	Missing bool `json:"missing,omitempty"`

	// Err is set when the scenario could not be compared for any other reason.
	Err error `json:"-"`
}

// Regressed reports whether the comparison found a regression.
func (r *ScenarioResult) Regressed() bool {
	return r.Verdict != nil && r.Verdict.Direction == analysis.DirectionRegression
}

// ErrorMessage returns Err's text, or "" when there is none.
func (r *ScenarioResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// AnyRegressed reports whether any result regressed.
func AnyRegressed(results []*ScenarioResult) bool {
	for _, r := range results {
		if r.Regressed() {
			return true
		}
	}
	return false
}
