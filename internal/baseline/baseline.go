// Package baseline defines the document stored for each scenario's
// baseline sample.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/discochess/loadstat/analysis"
)

// CurrentVersion is the document version written by Encode.
const CurrentVersion = 1

var (
	// ErrUnsupportedVersion is returned for documents from a newer release.
	ErrUnsupportedVersion = errors.New("baseline: unsupported version")

	// ErrEmpty is returned for documents without values.
	ErrEmpty = errors.New("baseline: no values")
)

// Baseline is a recorded reference sample for one scenario.
type Baseline struct {
	Version    int                          `json:"version"`
	Scenario   string                       `json:"scenario"`
	RecordedAt time.Time                    `json:"recorded_at"`
	Summary    *analysis.DescriptiveSummary `json:"summary,omitempty"`
	Values     []float64                    `json:"values"`
}

// New returns a baseline for scenario recorded at the given time.
// The values are copied and summarized.
func New(scenario string, values analysis.Sample, recordedAt time.Time) (*Baseline, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if err := values.Validate(); err != nil {
		return nil, err
	}
	summary, err := analysis.Describe(values)
	if err != nil {
		return nil, err
	}
	return &Baseline{
		Version:    CurrentVersion,
		Scenario:   scenario,
		RecordedAt: recordedAt.UTC(),
		Summary:    summary,
		Values:     append([]float64(nil), values...),
	}, nil
}

// Sample returns the recorded values as a sample.
func (b *Baseline) Sample() analysis.Sample {
	return analysis.Sample(b.Values)
}

// Encode marshals b to indented JSON.
func Encode(b *Baseline) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling baseline: %w", err)
	}
	return data, nil
}

// Decode parses a baseline document and checks its version and values.
// A missing summary is recomputed from the values.
func Decode(data []byte) (*Baseline, error) {
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline: %w", err)
	}
	if b.Version < 1 || b.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}
	if len(b.Values) == 0 {
		return nil, ErrEmpty
	}
	if err := b.Sample().Validate(); err != nil {
		return nil, fmt.Errorf("baseline %s: %w", b.Scenario, err)
	}
	if b.Summary == nil {
		b.Summary, _ = analysis.Describe(b.Sample())
	}
	return &b, nil
}
