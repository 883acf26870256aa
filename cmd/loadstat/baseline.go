package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/loadstat/reporting"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage stored baselines",
	Long: `Save, show and list the baselines that "loadstat check" compares against.

Baselines live under <data-dir>/baselines as zstd-compressed JSON, or in the
bucket given by --store.`,
}

var baselineSaveCmd = &cobra.Command{
	Use:   "save SCENARIO [FILE]",
	Short: "Save a sample as the baseline for a scenario",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBaselineSave,
}

var baselineShowCmd = &cobra.Command{
	Use:   "show SCENARIO",
	Short: "Show a stored baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineShow,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios with a stored baseline",
	Args:  cobra.NoArgs,
	RunE:  runBaselineList,
}

func init() {
	baselineCmd.AddCommand(baselineSaveCmd, baselineShowCmd, baselineListCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineSave(cmd *cobra.Command, args []string) error {
	scenario := args[0]
	s, err := readSample(cmd.InOrStdin(), argOrEmpty(args, 1))
	if err != nil {
		return err
	}

	a, err := newAnalyzer(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.SaveBaseline(cmd.Context(), scenario, s); err != nil {
		return err
	}

	if format != formatJSON && format != formatPipe {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved baseline %q (%d values)\n", scenario, len(s))
	}
	return nil
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := a.LoadBaseline(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printBaseline(cmd.OutOrStdout(), b)
}

func runBaselineList(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := a.ListBaselines(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format == formatJSON {
		if names == nil {
			names = []string{}
		}
		return reporting.WriteJSON(w, names)
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}
