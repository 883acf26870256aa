package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Normality thresholds (D'Agostino, 1971).
const (
	// MinNormalitySampleSize is the smallest sample whose third and fourth
	// moments are considered reliable.
	MinNormalitySampleSize = 20

	// MaxNormalSkewness is the largest |skewness| still classified as normal.
	MaxNormalSkewness = 1.0

	// MaxNormalKurtosis is the largest |excess kurtosis| still classified as normal.
	MaxNormalKurtosis = 2.0
)

// NormalityStatus classifies the shape of a sample.
type NormalityStatus string

const (
	NormalityInsufficientData    NormalityStatus = "insufficient_data"
	NormalityZeroVariance        NormalityStatus = "zero_variance"
	NormalityApproximatelyNormal NormalityStatus = "approximately_normal"
	NormalityNonNormal           NormalityStatus = "non_normal"
)

// NormalityVerdict is the outcome of AssessNormality. Skewness and Kurtosis
// are only populated for the ApproximatelyNormal and NonNormal statuses.
type NormalityVerdict struct {
	Status   NormalityStatus `json:"status"`
	Skewness float64         `json:"skewness"`
	Kurtosis float64         `json:"kurtosis"`
}

// IsNormal reports whether the sample was classified approximately normal.
func (v NormalityVerdict) IsNormal() bool {
	return v.Status == NormalityApproximatelyNormal
}

// AssessNormality classifies a sample by its skewness and excess kurtosis.
//
// Skewness is the mean of the cubed z-scores and excess kurtosis the mean of
// the fourth-power z-scores minus 3, where z-scores use the sample standard
// deviation. A sample is non-normal when |skewness| > 1 or |kurtosis| > 2.
func AssessNormality(s Sample) NormalityVerdict {
	n := len(s)
	if n < MinNormalitySampleSize {
		return NormalityVerdict{Status: NormalityInsufficientData}
	}

	mean := stat.Mean(s, nil)
	sd := StdDev(s)
	if sd == 0 {
		return NormalityVerdict{Status: NormalityZeroVariance}
	}

	var m3, m4 float64
	for _, x := range s {
		z := (x - mean) / sd
		z2 := z * z
		m3 += z2 * z
		m4 += z2 * z2
	}
	skewness := m3 / float64(n)
	kurtosis := m4/float64(n) - 3

	return NormalityVerdict{
		Status:   classifyMoments(skewness, kurtosis),
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

func classifyMoments(skewness, kurtosis float64) NormalityStatus {
	if math.Abs(skewness) > MaxNormalSkewness || math.Abs(kurtosis) > MaxNormalKurtosis {
		return NormalityNonNormal
	}
	return NormalityApproximatelyNormal
}
