package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PValueMode selects how p-values are derived from a test statistic.
type PValueMode string

const (
	// PValueExact integrates the Student-t or standard normal distribution.
	PValueExact PValueMode = "exact"

	// PValueBanded maps the statistic onto fixed two-tailed critical-value
	// bands. It reproduces the coarse p-values of historical reports.
	PValueBanded PValueMode = "banded"
)

// DefaultPValueMode is used when no mode is configured.
const DefaultPValueMode = PValueExact

// Valid reports whether m is a known mode.
func (m PValueMode) Valid() bool {
	return m == PValueExact || m == PValueBanded
}

// orDefault maps unknown modes to DefaultPValueMode, so a result always
// records the mode that produced its p-value.
func (m PValueMode) orDefault() PValueMode {
	if m.Valid() {
		return m
	}
	return DefaultPValueMode
}

// ParsePValueMode parses "exact" or "banded".
func ParsePValueMode(s string) (PValueMode, error) {
	switch m := PValueMode(s); m {
	case PValueExact, PValueBanded:
		return m, nil
	default:
		return "", fmt.Errorf("unknown p-value mode: %q", s)
	}
}

// bandedDFThreshold splits the Student-t band tables.
const bandedDFThreshold = 30

// tPValue returns the two-tailed p-value for a t statistic.
func tPValue(t, df float64, mode PValueMode) float64 {
	if mode == PValueBanded {
		return bandedTPValue(t, df)
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampProbability(2 * dist.Survival(math.Abs(t)))
}

// zPValue returns the two-tailed p-value for a z score.
func zPValue(z float64, mode PValueMode) float64 {
	if mode == PValueBanded {
		return bandedZPValue(z)
	}
	return clampProbability(2 * distuv.UnitNormal.Survival(math.Abs(z)))
}

func bandedTPValue(t, df float64) float64 {
	absT := math.Abs(t)
	if df > bandedDFThreshold {
		switch {
		case absT > 3.5:
			return 0.001
		case absT > 2.576:
			return 0.01
		case absT > 1.96:
			return 0.05
		case absT > 1.645:
			return 0.10
		default:
			return 0.20
		}
	}
	switch {
	case absT > 3.0:
		return 0.01
	case absT > 2.0:
		return 0.05
	default:
		return 0.20
	}
}

func bandedZPValue(z float64) float64 {
	absZ := math.Abs(z)
	switch {
	case absZ > 3.291:
		return 0.001
	case absZ > 2.576:
		return 0.01
	case absZ > 1.96:
		return 0.05
	case absZ > 1.645:
		return 0.10
	case absZ > 1.28:
		return 0.20
	default:
		return 0.50
	}
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1
	case p > 1:
		return 1
	case p < 0:
		return 0
	default:
		return p
	}
}
