package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/stats"
	statslogger "github.com/discochess/loadstat/internal/stats/logger"
	statsprom "github.com/discochess/loadstat/internal/stats/prometheus"
)

var (
	// Global flags.
	dataDir    string
	storeURL   string
	s3Endpoint string
	s3Region   string
	verbose    bool
	format     string
	pvalueMode string
	metricsOut string
)

// Set up by the root command before any subcommand runs.
var (
	logger    *zap.Logger     = zap.NewNop()
	collector stats.Collector = stats.NewNoop()
	registry  *prometheus.Registry
	mode      analysis.PValueMode
)

var rootCmd = &cobra.Command{
	Use:   "loadstat",
	Short: "Statistical comparison of load-test results",
	Long: `Loadstat decides whether a candidate load-test run is an improvement,
a regression or no change compared to a baseline run.

Samples are whitespace-separated numbers, one observation per value, read
from a file or stdin. Both samples are checked for normality; Welch's t-test
is used when both look normal and the Mann-Whitney U test otherwise.

Examples:
  # Summarize a sample
  loadstat describe latencies.txt

  # Compare two runs
  loadstat compare baseline.txt candidate.txt --lower-is-better

  # Save a baseline and check a later run against it
  loadstat baseline save checkout run1.txt
  loadstat check checkout run2.txt --lower-is-better`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", defaultDataDir(), "directory containing stored baselines")
	rootCmd.PersistentFlags().StringVar(&storeURL, "store", "", "remote baseline store (s3://bucket/prefix or gs://bucket/prefix); overrides --data-dir")
	rootCmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", "", "custom S3 endpoint for S3-compatible services")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "AWS region for the S3 store")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "output format: text, pipe, markdown, html, json")
	rootCmd.PersistentFlags().StringVar(&pvalueMode, "pvalue-mode", string(analysis.DefaultPValueMode), "p-value computation: exact or banded")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file on exit")
}

func defaultDataDir() string {
	if dir := os.Getenv("LOADSTAT_DATA"); dir != "" {
		return dir
	}
	return "./data"
}

func setup(cmd *cobra.Command, args []string) error {
	switch format {
	case formatText, formatPipe, formatMarkdown, formatHTML, formatJSON:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	var err error
	if mode, err = analysis.ParsePValueMode(pvalueMode); err != nil {
		return err
	}

	if logger, err = newLogger(verbose); err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	switch {
	case metricsOut != "":
		registry = prometheus.NewRegistry()
		collector = statsprom.New(registry)
	case verbose:
		collector = statslogger.New(logger.Named("stats"))
	default:
		collector = stats.NewNoop()
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	if metricsOut == "" || registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(metricsOut, registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// newLogger logs warnings and errors as JSON to stderr, or everything in
// the development format when verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}
