package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// EffectKind names an effect-size measure.
type EffectKind string

const (
	EffectCohensD      EffectKind = "cohens_d"
	EffectRankBiserial EffectKind = "rank_biserial"
)

// Magnitude is the conventional interpretation of an effect size.
type Magnitude string

const (
	MagnitudeNegligible Magnitude = "negligible"
	MagnitudeSmall      Magnitude = "small"
	MagnitudeMedium     Magnitude = "medium"
	MagnitudeLarge      Magnitude = "large"
)

// EffectSize contains a standardized effect size and its interpretation.
type EffectSize struct {
	Value     float64    `json:"value"`
	Kind      EffectKind `json:"kind"`
	Magnitude Magnitude  `json:"magnitude"`
}

// CohensD computes Cohen's d, (mean1 - mean2) / pooled_sd.
// It returns 0 when the pooled standard deviation is 0 or undefined.
func CohensD(baseline, candidate Sample) EffectSize {
	n1 := float64(len(baseline))
	n2 := float64(len(candidate))

	var d float64
	if n1 > 0 && n2 > 0 && n1+n2 > 2 {
		pooledVar := ((n1-1)*Variance(baseline) + (n2-1)*Variance(candidate)) / (n1 + n2 - 2)
		if pooledSD := math.Sqrt(pooledVar); pooledSD > 0 {
			d = (stat.Mean(baseline, nil) - stat.Mean(candidate, nil)) / pooledSD
		}
	}

	return EffectSize{
		Value:     d,
		Kind:      EffectCohensD,
		Magnitude: InterpretMagnitude(d),
	}
}

// RankBiserial computes the rank-biserial correlation 1 - 2U/(n1·n2) from
// the U statistic reported by the Mann-Whitney test.
func RankBiserial(u float64, n1, n2 int) EffectSize {
	var r float64
	if n1 > 0 && n2 > 0 {
		r = 1 - 2*u/(float64(n1)*float64(n2))
	}
	return EffectSize{
		Value:     r,
		Kind:      EffectRankBiserial,
		Magnitude: InterpretMagnitude(r),
	}
}

// InterpretMagnitude classifies |effect| with the 0.2 / 0.5 / 0.8 bands.
// The same bands apply to every effect-size kind.
func InterpretMagnitude(effect float64) Magnitude {
	switch abs := math.Abs(effect); {
	case abs < 0.2:
		return MagnitudeNegligible
	case abs < 0.5:
		return MagnitudeSmall
	case abs < 0.8:
		return MagnitudeMedium
	default:
		return MagnitudeLarge
	}
}
