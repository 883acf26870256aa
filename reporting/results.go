package reporting

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/sampleio"
)

// Results file layout written by the load generator: one CSV per scenario
// named results_<scenario>.csv, one row per reporting interval.
const (
	ResultsPattern   = "results_*.csv"
	RPSColumn        = "rps"
	P95LatencyColumn = "p95"
)

// ErrNoResults is returned by LoadResults when the directory has no
// results files.
var ErrNoResults = errors.New("reporting: no results files found")

// ScenarioResults aggregates one scenario's results file.
type ScenarioResults struct {
	Scenario   string  `json:"scenario"`
	Rows       int     `json:"rows"`
	AvgRPS     float64 `json:"avg_rps"`
	P95Latency float64 `json:"p95_latency_ms"`
}

// LoadResults reads every results file in dir and returns the mean rps and
// mean p95 latency per scenario, ordered by scenario. Files without data
// rows are skipped.
func LoadResults(dir string) ([]ScenarioResults, error) {
	paths, err := filepath.Glob(filepath.Join(dir, ResultsPattern))
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, dir)
	}

	out := make([]ScenarioResults, 0, len(paths))
	for _, path := range paths {
		res, ok, err := loadResultsFile(path)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func loadResultsFile(path string) (ScenarioResults, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioResults{}, false, fmt.Errorf("reading results: %w", err)
	}

	rps, err := sampleio.ParseCSVColumn(bytes.NewReader(data), RPSColumn)
	if err != nil {
		return ScenarioResults{}, false, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	p95, err := sampleio.ParseCSVColumn(bytes.NewReader(data), P95LatencyColumn)
	if err != nil {
		return ScenarioResults{}, false, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(rps) == 0 || len(p95) == 0 {
		return ScenarioResults{}, false, nil
	}

	avgRPS, _ := analysis.Mean(rps)
	avgP95, _ := analysis.Mean(p95)
	return ScenarioResults{
		Scenario:   scenarioFromResultsFile(path),
		Rows:       len(rps),
		AvgRPS:     avgRPS,
		P95Latency: avgP95,
	}, true, nil
}

func scenarioFromResultsFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	return strings.TrimPrefix(name, "results_")
}
