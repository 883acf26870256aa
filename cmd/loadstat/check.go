package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/loadstat"
)

var checkCmd = &cobra.Command{
	Use:   "check SCENARIO [FILE]",
	Short: "Compare a sample against the stored baseline of a scenario",
	Long: `Compare a candidate sample against the baseline saved for SCENARIO.

The command exits with status 2 when the candidate is a statistically
significant regression, which makes it suitable as a CI gate.

Examples:
  loadstat check checkout run.txt --lower-is-better
  loadstat check checkout run.txt --save-if-missing`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCheck,
}

var saveIfMissing bool

func init() {
	addDecisionFlags(checkCmd)
	checkCmd.Flags().BoolVar(&saveIfMissing, "save-if-missing", false, "save the sample as the baseline when none exists")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	candidate, err := readSample(cmd.InOrStdin(), argOrEmpty(args, 1))
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cmd.Context(), true,
		loadstat.WithAlpha(alpha),
		loadstat.WithPolarity(polarity()),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.CompareScenario(cmd.Context(), scenario, candidate)
	if errors.Is(err, loadstat.ErrBaselineNotFound) && saveIfMissing {
		if err := a.SaveBaseline(cmd.Context(), scenario, candidate); err != nil {
			return err
		}
		logger.Info("no baseline found, saved candidate as baseline", zap.String("scenario", scenario))
		res = &loadstat.ScenarioResult{Scenario: scenario, Missing: true}
		res.Candidate, _ = a.Describe(candidate)
		err = nil
	}
	if err != nil {
		return err
	}

	if err := printScenarioResults(cmd.OutOrStdout(), []*loadstat.ScenarioResult{res}, alpha, polarity()); err != nil {
		return err
	}
	if res.Regressed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "regression detected in %s\n", scenario)
		exitCode = exitRegression
	}
	return nil
}
