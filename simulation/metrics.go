package simulation

import (
	"fmt"

	"github.com/discochess/loadstat/analysis"
)

// Metrics aggregates repeated trials of one scenario.
type Metrics struct {
	Scenario string

	Trials          int
	Correct         int
	Failures        int
	WelchRuns       int
	MannWhitneyRuns int

	// DetectionRate is the fraction of trials whose direction matched the
	// expected one. With no shift it is 1 minus the false-positive rate.
	DetectionRate float64

	// MeanPValue averages the p-values of successful trials.
	MeanPValue float64
}

// Repeat runs sc trials times and aggregates the outcomes.
func (s *Simulator) Repeat(sc Scenario, trials int, opts ...analysis.CompareOption) (*Metrics, error) {
	if trials < 1 {
		return nil, fmt.Errorf("simulation: trials must be positive, got %d", trials)
	}

	m := &Metrics{Scenario: sc.Name, Trials: trials}
	var pSum float64
	var pCount int

	for range trials {
		t, err := s.Run(sc, opts...)
		if err != nil {
			return nil, err
		}
		m.add(t)
		if _, failed := t.Verdict.Failure(); !failed {
			pSum += t.Verdict.PValue
			pCount++
		}
	}

	m.DetectionRate = float64(m.Correct) / float64(m.Trials)
	if pCount > 0 {
		m.MeanPValue = pSum / float64(pCount)
	}
	return m, nil
}

func (m *Metrics) add(t *Trial) {
	if t.Correct() {
		m.Correct++
	}
	if _, failed := t.Verdict.Failure(); failed {
		m.Failures++
	}
	switch t.Verdict.Test {
	case analysis.TestWelch:
		m.WelchRuns++
	case analysis.TestMannWhitney:
		m.MannWhitneyRuns++
	}
}
