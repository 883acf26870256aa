package main

import (
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [FILE]",
	Short: "Show descriptive statistics for a sample",
	Long: `Summarize a sample: mean, median, standard deviation, variance,
min, max, the 90th/95th/99th percentiles and a 95% confidence interval
for the mean.

Percentiles use the nearest-rank index floor(p/100 × (n-1)) with no
interpolation.

Examples:
  loadstat describe latencies.txt
  cat latencies.txt | loadstat describe --format pipe
  loadstat describe results.csv --column p95`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	path := argOrEmpty(args, 0)
	s, err := readSample(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.Describe(s)
	if err != nil {
		return err
	}

	name := path
	if name == "" || name == "-" {
		name = "stdin"
	}
	return printSummary(cmd.OutOrStdout(), name, summary)
}
