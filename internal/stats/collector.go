// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Comparison metrics.
	MetricComparisons         = "loadstat_comparisons_total"
	MetricComparisonFailures  = "loadstat_comparison_failures_total"
	MetricWelchSelected       = "loadstat_welch_selected_total"
	MetricMannWhitneySelected = "loadstat_mann_whitney_selected_total"
	MetricRegressions         = "loadstat_regressions_total"
	MetricImprovements        = "loadstat_improvements_total"
	MetricSampleSize          = "loadstat_sample_size"

	// Baseline store metrics.
	MetricBaselineReads  = "loadstat_baseline_reads_total"
	MetricBaselineMisses = "loadstat_baseline_misses_total"
	MetricBaselineWrites = "loadstat_baseline_writes_total"

	// Cache metrics.
	MetricCacheHits   = "loadstat_cache_hits_total"
	MetricCacheMisses = "loadstat_cache_misses_total"
	MetricCacheSize   = "loadstat_cache_size"
)

var help = map[string]string{
	MetricComparisons:         "Number of baseline/candidate comparisons run.",
	MetricComparisonFailures:  "Number of comparisons whose selected test could not be computed.",
	MetricWelchSelected:       "Number of comparisons that selected Welch's t-test.",
	MetricMannWhitneySelected: "Number of comparisons that selected the Mann-Whitney U test.",
	MetricRegressions:         "Number of comparisons that detected a regression.",
	MetricImprovements:        "Number of comparisons that detected an improvement.",
	MetricSampleSize:          "Size of each compared sample.",
	MetricBaselineReads:       "Number of baseline reads from the store.",
	MetricBaselineMisses:      "Number of baseline reads that found no baseline.",
	MetricBaselineWrites:      "Number of baselines written to the store.",
	MetricCacheHits:           "Number of baseline cache hits.",
	MetricCacheMisses:         "Number of baseline cache misses.",
	MetricCacheSize:           "Number of baselines held in the cache.",
}

// Help returns the description of a known metric, or name itself.
func Help(name string) string {
	if h, ok := help[name]; ok {
		return h
	}
	return name
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
