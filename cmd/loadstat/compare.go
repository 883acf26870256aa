package main

import (
	"github.com/spf13/cobra"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
)

var compareCmd = &cobra.Command{
	Use:   "compare [BASELINE CANDIDATE]",
	Short: "Compare a candidate sample against a baseline sample",
	Long: `Compare two samples and report the selected test, p-value, effect
size, percent change of the mean and the resulting direction.

With no arguments, or a single "-", both samples are read from stdin
separated by a line containing only "---".

Examples:
  loadstat compare baseline.txt candidate.txt
  loadstat compare baseline.txt candidate.txt --lower-is-better --alpha 0.01
  printf '1 2 3\n---\n4 5 6\n' | loadstat compare --format pipe`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCompare,
}

var (
	alpha         float64
	lowerIsBetter bool
)

// addDecisionFlags registers the flags that control how a direction is decided.
func addDecisionFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&alpha, "alpha", analysis.DefaultAlpha, "significance level")
	cmd.Flags().BoolVar(&lowerIsBetter, "lower-is-better", false, "treat a lower mean as an improvement (latency)")
}

func polarity() analysis.Polarity {
	if lowerIsBetter {
		return analysis.LowerIsBetter
	}
	return analysis.HigherIsBetter
}

func init() {
	addDecisionFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	baseline, candidate, err := readPair(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cmd.Context(), false,
		loadstat.WithAlpha(alpha),
		loadstat.WithPolarity(polarity()),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := a.Compare(cmd.Context(), baseline, candidate)
	if err != nil {
		return err
	}
	return printVerdict(cmd.OutOrStdout(), "baseline vs candidate", v, alpha, polarity())
}
