// Package simulation generates synthetic load-test samples and measures how
// often the comparison pipeline detects a known shift.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/discochess/loadstat/analysis"
)

// Shape is the distribution observations are drawn from.
type Shape string

const (
	// ShapeNormal models throughput-like metrics.
	ShapeNormal Shape = "normal"

	// ShapeLogNormal models latency-like metrics with a long right tail.
	ShapeLogNormal Shape = "lognormal"
)

// ErrInvalidScenario indicates a scenario with impossible parameters.
var ErrInvalidScenario = errors.New("simulation: invalid scenario")

// Scenario describes one synthetic baseline/candidate pair.
type Scenario struct {
	Name  string
	Shape Shape

	// Mean and StdDev describe the baseline distribution.
	Mean   float64
	StdDev float64

	// N is the number of observations in each sample.
	N int

	// Shift moves the candidate mean by a fraction of the baseline mean;
	// 0.1 is a 10% increase.
	Shift float64

	// OutlierRate is the fraction of candidate observations replaced by
	// outliers of OutlierFactor × Mean.
	OutlierRate   float64
	OutlierFactor float64

	// Polarity is passed to the comparison.
	Polarity analysis.Polarity
}

// Validate checks the scenario parameters.
func (s Scenario) Validate() error {
	switch {
	case s.N < 1:
		return fmt.Errorf("%w: %s: n must be positive", ErrInvalidScenario, s.Name)
	case s.StdDev < 0:
		return fmt.Errorf("%w: %s: negative standard deviation", ErrInvalidScenario, s.Name)
	case s.OutlierRate < 0 || s.OutlierRate > 1:
		return fmt.Errorf("%w: %s: outlier rate outside [0, 1]", ErrInvalidScenario, s.Name)
	case s.Shape == ShapeLogNormal && s.Mean <= 0:
		return fmt.Errorf("%w: %s: lognormal mean must be positive", ErrInvalidScenario, s.Name)
	case s.Shape != ShapeNormal && s.Shape != ShapeLogNormal:
		return fmt.Errorf("%w: %s: unknown shape %q", ErrInvalidScenario, s.Name, s.Shape)
	}
	return nil
}

// Expected returns the direction a perfect test would report.
func (s Scenario) Expected() analysis.Direction {
	if s.Shift == 0 {
		return analysis.DirectionNoChange
	}
	higher := s.Shift > 0
	if s.Polarity == analysis.LowerIsBetter {
		higher = !higher
	}
	if higher {
		return analysis.DirectionImprovement
	}
	return analysis.DirectionRegression
}

// Simulator draws samples from a seeded source. The same seed always
// produces the same samples. A Simulator is not safe for concurrent use.
type Simulator struct {
	src *rand.Rand
}

// NewSimulator creates a Simulator seeded with seed.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Draw returns n observations with the given shape, mean and standard
// deviation.
func (s *Simulator) Draw(shape Shape, mean, stdDev float64, n int) analysis.Sample {
	out := make(analysis.Sample, n)

	switch shape {
	case ShapeLogNormal:
		// Match the requested mean and variance on the natural scale.
		sigma2 := math.Log1p(stdDev * stdDev / (mean * mean))
		dist := distuv.LogNormal{
			Mu:    math.Log(mean) - sigma2/2,
			Sigma: math.Sqrt(sigma2),
			Src:   s.src,
		}
		for i := range out {
			out[i] = dist.Rand()
		}
	default:
		dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: s.src}
		for i := range out {
			out[i] = dist.Rand()
		}
	}
	return out
}

// Pair draws a baseline and a candidate sample for sc.
func (s *Simulator) Pair(sc Scenario) (baseline, candidate analysis.Sample, err error) {
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}

	baseline = s.Draw(sc.Shape, sc.Mean, sc.StdDev, sc.N)

	shifted := sc.Mean * (1 + sc.Shift)
	candidate = s.Draw(sc.Shape, shifted, sc.StdDev, sc.N)

	if sc.OutlierRate > 0 {
		for i := range candidate {
			if s.src.Float64() < sc.OutlierRate {
				candidate[i] = sc.Mean * sc.OutlierFactor
			}
		}
	}
	return baseline, candidate, nil
}

// Run draws one pair for sc and compares it.
func (s *Simulator) Run(sc Scenario, opts ...analysis.CompareOption) (*Trial, error) {
	b, c, err := s.Pair(sc)
	if err != nil {
		return nil, err
	}
	opts = append(opts, analysis.WithPolarity(sc.Polarity))
	return &Trial{
		Scenario:  sc.Name,
		Baseline:  b,
		Candidate: c,
		Verdict:   analysis.Compare(b, c, opts...),
		Expected:  sc.Expected(),
	}, nil
}

// Trial is one simulated comparison.
type Trial struct {
	Scenario  string
	Baseline  analysis.Sample
	Candidate analysis.Sample
	Verdict   *analysis.ComparisonVerdict
	Expected  analysis.Direction
}

// Correct reports whether the verdict matches the expected direction.
func (t *Trial) Correct() bool {
	return t.Verdict.Direction == t.Expected
}

// DefaultScenarios returns a latency and a throughput scenario of n
// observations each, with the candidate shifted by shift and outlierRate
// of candidate observations replaced by 10× outliers.
func DefaultScenarios(n int, shift, outlierRate float64) []Scenario {
	return []Scenario{
		{
			Name:          "latency",
			Shape:         ShapeLogNormal,
			Mean:          120,
			StdDev:        40,
			N:             n,
			Shift:         shift,
			OutlierRate:   outlierRate,
			OutlierFactor: 10,
			Polarity:      analysis.LowerIsBetter,
		},
		{
			Name:          "throughput",
			Shape:         ShapeNormal,
			Mean:          1000,
			StdDev:        50,
			N:             n,
			Shift:         shift,
			OutlierRate:   outlierRate,
			OutlierFactor: 10,
			Polarity:      analysis.HigherIsBetter,
		},
	}
}
