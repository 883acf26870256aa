package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/loadstat/reporting"
)

var noCharts bool

var reportCmd = &cobra.Command{
	Use:   "report DIR",
	Short: "Summarize a directory of load-test results files",
	Long: `Read every results_<scenario>.csv in DIR and report the mean of the
rps and p95 columns per scenario.

Unless --no-charts is given, an average RPS chart (rps_comparison.svg) and
a P95 latency chart (latency_comparison.svg) are written into DIR. Markdown
and HTML reports link to the charts by file name, so save them in DIR.

Examples:
  loadstat report reports/2026-10-01
  loadstat report reports/2026-10-01 --format html > reports/2026-10-01/index.html`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&noCharts, "no-charts", false, "do not write SVG charts")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	dir := args[0]
	results, err := reporting.LoadResults(dir)
	if err != nil {
		return err
	}

	var charts []string
	if !noCharts && len(results) > 0 {
		charts, err = reporting.WriteResultsCharts(dir, results)
		if err != nil {
			return err
		}
		logger.Info("wrote charts", zap.Strings("paths", charts))
	}

	w := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return reporting.WriteJSON(w, results)
	case formatPipe:
		// scenario|avg_rps|p95_latency
		for _, r := range results {
			fmt.Fprintf(w, "%s|%s\n", r.Scenario, pipeJoin(r.AvgRPS, r.P95Latency))
		}
		return nil
	case formatMarkdown, formatHTML:
		return withReport(w, func(r report) {
			r.WriteHeader("Load Test Results")
			r.WriteResults(results, charts)
			r.WriteFooter()
		})
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCENARIO\tROWS\tAVG RPS\tP95 LATENCY (MS)")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", r.Scenario, r.Rows, r.AvgRPS, r.P95Latency)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, c := range charts {
			fmt.Fprintf(w, "Created %s\n", c)
		}
		return nil
	}
}
