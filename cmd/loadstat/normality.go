package main

import (
	"github.com/spf13/cobra"

	"github.com/discochess/loadstat/analysis"
)

var normalityCmd = &cobra.Command{
	Use:   "normality [FILE]",
	Short: "Assess whether a sample is approximately normal",
	Long: `Classify a sample by its skewness and excess kurtosis.

A sample needs at least 20 observations. It is approximately normal when
|skewness| <= 1 and |kurtosis| <= 2.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormality,
}

func init() {
	rootCmd.AddCommand(normalityCmd)
}

func runNormality(cmd *cobra.Command, args []string) error {
	s, err := readSample(cmd.InOrStdin(), argOrEmpty(args, 0))
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return printNormality(cmd.OutOrStdout(), analysis.AssessNormality(s))
}
