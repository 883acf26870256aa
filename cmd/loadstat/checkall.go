package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/sampleio"
)

var checkAllCmd = &cobra.Command{
	Use:   "check-all MANIFEST",
	Short: "Check every scenario listed in a YAML manifest",
	Long: `Compare each scenario in MANIFEST against its stored baseline, in
parallel, and report one row per scenario.

The manifest lists the candidate file for each scenario. Relative paths are
resolved against the manifest's directory:

  alpha: 0.05
  polarity: lower_is_better
  scenarios:
    - name: checkout
      file: results/checkout.txt
    - name: search
      file: results/search.csv
      column: p95

Scenarios without a baseline are reported as "no baseline". The command
exits with status 2 when any scenario regressed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckAll,
}

var checkAllWorkers int

func init() {
	checkAllCmd.Flags().IntVar(&checkAllWorkers, "workers", runtime.GOMAXPROCS(0), "number of scenarios compared in parallel")
	checkAllCmd.Flags().BoolVar(&saveIfMissing, "save-if-missing", false, "save candidates as baselines for scenarios without one")
	rootCmd.AddCommand(checkAllCmd)
}

// Manifest lists the candidate samples checked by check-all.
type Manifest struct {
	Alpha     float64            `yaml:"alpha"`
	Polarity  analysis.Polarity  `yaml:"polarity"`
	Scenarios []ManifestScenario `yaml:"scenarios"`
}

// ManifestScenario names one candidate sample.
type ManifestScenario struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Column string `yaml:"column,omitempty"`
}

// loadManifest parses the manifest at path and applies defaults.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m := &Manifest{Alpha: analysis.DefaultAlpha, Polarity: analysis.HigherIsBetter}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	switch m.Polarity {
	case analysis.HigherIsBetter, analysis.LowerIsBetter:
	default:
		return nil, fmt.Errorf("manifest: unknown polarity %q", m.Polarity)
	}
	if len(m.Scenarios) == 0 {
		return nil, errors.New("manifest: no scenarios")
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool, len(m.Scenarios))
	for i := range m.Scenarios {
		sc := &m.Scenarios[i]
		if sc.Name == "" || sc.File == "" {
			return nil, fmt.Errorf("manifest: scenario %d needs name and file", i)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("manifest: duplicate scenario %q", sc.Name)
		}
		seen[sc.Name] = true
		if !filepath.IsAbs(sc.File) {
			sc.File = filepath.Join(dir, sc.File)
		}
	}
	return m, nil
}

func (sc ManifestScenario) read() (analysis.Sample, error) {
	if sc.Column == "" {
		return sampleio.ReadFile(sc.File)
	}
	f, err := os.Open(sc.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sampleio.ParseCSVColumn(f, sc.Column)
}

func runCheckAll(cmd *cobra.Command, args []string) error {
	m, err := loadManifest(args[0])
	if err != nil {
		return err
	}

	candidates := make(map[string]analysis.Sample, len(m.Scenarios))
	for _, sc := range m.Scenarios {
		s, err := sc.read()
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		candidates[sc.Name] = s
	}

	a, err := newAnalyzer(cmd.Context(), true,
		loadstat.WithAlpha(m.Alpha),
		loadstat.WithPolarity(m.Polarity),
		loadstat.WithWorkers(checkAllWorkers),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.CompareAll(cmd.Context(), candidates)
	if err != nil {
		return err
	}

	if saveIfMissing {
		for _, r := range results {
			if !r.Missing {
				continue
			}
			if err := a.SaveBaseline(cmd.Context(), r.Scenario, candidates[r.Scenario]); err != nil {
				return err
			}
			logger.Info("no baseline found, saved candidate as baseline", zap.String("scenario", r.Scenario))
		}
	}

	if err := printScenarioResults(cmd.OutOrStdout(), results, m.Alpha, m.Polarity); err != nil {
		return err
	}
	if loadstat.AnyRegressed(results) {
		exitCode = exitRegression
	}
	return nil
}
