// Package reporting renders comparison results as Markdown, HTML and JSON,
// and load-test results files as SVG bar charts.
package reporting

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
)

// MarkdownReport generates comparison reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().UTC().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(mode analysis.PValueMode, alpha float64, polarity analysis.Polarity) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Significance level:** α = %g\n", alpha)
	fmt.Fprintf(r.w, "- **P-values:** %s\n", mode)
	fmt.Fprintf(r.w, "- **Polarity:** %s\n", strings.ReplaceAll(string(polarity), "_", " "))
	fmt.Fprintf(r.w, "- **Test selection:** Welch's t-test when both samples are approximately normal (n ≥ %d, |skew| ≤ %g, |kurtosis| ≤ %g), Mann-Whitney U otherwise\n",
		analysis.MinNormalitySampleSize, analysis.MaxNormalSkewness, analysis.MaxNormalKurtosis)
	fmt.Fprintln(r.w, "- **Effect size:** Cohen's d (Welch) or rank-biserial correlation (Mann-Whitney)")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes one row of descriptive statistics per sample,
// ordered by name.
func (r *MarkdownReport) WriteSummaryTable(summaries map[string]*analysis.DescriptiveSummary) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Sample | N | Mean | Median | Std Dev | P95 | P99 | 95% CI |")
	fmt.Fprintln(r.w, "|--------|---|------|--------|---------|-----|-----|--------|")

	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := summaries[name]
		if s == nil {
			continue
		}
		fmt.Fprintf(r.w, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | [%.2f, %.2f] |\n",
			name, s.N, s.Mean, s.Median, s.StdDev, s.P95, s.P99, s.CILower, s.CIUpper)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed section for one verdict.
func (r *MarkdownReport) WriteComparison(name string, v *analysis.ComparisonVerdict) {
	fmt.Fprintf(r.w, "## %s\n\n", name)

	fmt.Fprintln(r.w, "### Normality")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Sample | Status | Skewness | Kurtosis |")
	fmt.Fprintln(r.w, "|--------|--------|----------|----------|")
	writeNormalityRow(r.w, "baseline", v.BaselineNormality)
	writeNormalityRow(r.w, "candidate", v.CandidateNormality)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	switch res := v.Result.(type) {
	case *analysis.WelchResult:
		fmt.Fprintf(r.w, "- **Welch's t-test:** t=%.3f, df=%.1f, p=%.4f (%s)\n",
			res.TStatistic, res.DegreesOfFreedom, res.PValue, res.Mode)
	case *analysis.MannWhitneyResult:
		fmt.Fprintf(r.w, "- **Mann-Whitney U:** U=%.1f (z=%.3f, p=%.4f, %s)\n",
			res.U, res.ZScore, res.PValue, res.Mode)
	case *analysis.Failure:
		fmt.Fprintf(r.w, "- **%s:** not computed, %s\n", testName(res.Test), failureText(res.Reason))
	}
	if v.EffectSize != nil {
		fmt.Fprintf(r.w, "- **Effect size (%s):** %.3f (%s)\n",
			effectName(v.EffectSize.Kind), v.EffectSize.Value, v.EffectSize.Magnitude)
	}
	fmt.Fprintf(r.w, "- **Mean:** %.2f → %.2f (%+.1f%%)\n", v.BaselineMean, v.CandidateMean, v.PercentChange)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, conclusion(v))
	fmt.Fprintln(r.w)
}

// WriteScenarioResults writes a table with one row per scenario result.
func (r *MarkdownReport) WriteScenarioResults(results []*loadstat.ScenarioResult) {
	fmt.Fprintln(r.w, "## Scenarios")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Scenario | Test | p-value | Effect | Change | Result |")
	fmt.Fprintln(r.w, "|----------|------|---------|--------|--------|--------|")

	for _, res := range results {
		switch {
		case res.Missing:
			fmt.Fprintf(r.w, "| %s | - | - | - | - | no baseline |\n", res.Scenario)
		case res.Err != nil:
			fmt.Fprintf(r.w, "| %s | - | - | - | - | error: %s |\n", res.Scenario, res.Err)
		case res.Verdict == nil:
			fmt.Fprintf(r.w, "| %s | - | - | - | - | - |\n", res.Scenario)
		default:
			v := res.Verdict
			if f, ok := v.Failure(); ok {
				fmt.Fprintf(r.w, "| %s | %s | - | - | %+.1f%% | %s |\n",
					res.Scenario, v.Test, v.PercentChange, failureText(f.Reason))
				continue
			}
			fmt.Fprintf(r.w, "| %s | %s | %.4f | %.2f (%s) | %+.1f%% | %s |\n",
				res.Scenario, v.Test, v.PValue, v.EffectSize.Value, v.EffectSize.Magnitude,
				v.PercentChange, directionText(v.Direction))
		}
	}
	fmt.Fprintln(r.w)
}

// WriteResults writes per-scenario load-test averages followed by links to
// the given chart files, relative to the report's directory.
func (r *MarkdownReport) WriteResults(results []ScenarioResults, charts []string) {
	fmt.Fprintln(r.w, "## Load Test Results")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Scenario | Rows | Avg RPS | P95 Latency (ms) |")
	fmt.Fprintln(r.w, "|----------|------|---------|------------------|")
	for _, res := range results {
		fmt.Fprintf(r.w, "| %s | %d | %.2f | %.2f |\n", res.Scenario, res.Rows, res.AvgRPS, res.P95Latency)
	}
	fmt.Fprintln(r.w)

	for _, c := range charts {
		name := filepath.Base(c)
		fmt.Fprintf(r.w, "![%s](%s)\n\n", strings.TrimSuffix(name, filepath.Ext(name)), name)
	}
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by loadstat*")
}

func writeNormalityRow(w io.Writer, name string, n analysis.NormalityVerdict) {
	switch n.Status {
	case analysis.NormalityApproximatelyNormal, analysis.NormalityNonNormal:
		fmt.Fprintf(w, "| %s | %s | %.3f | %.3f |\n", name, n.Status, n.Skewness, n.Kurtosis)
	default:
		fmt.Fprintf(w, "| %s | %s | - | - |\n", name, n.Status)
	}
}

func conclusion(v *analysis.ComparisonVerdict) string {
	if f, ok := v.Failure(); ok {
		return fmt.Sprintf("Cannot compare: %s.", failureText(f.Reason))
	}
	switch v.Direction {
	case analysis.DirectionImprovement:
		return fmt.Sprintf("**Improvement**: statistically significant (p=%.4f, effect size: %s).",
			v.PValue, v.EffectSize.Magnitude)
	case analysis.DirectionRegression:
		return fmt.Sprintf("**Regression**: statistically significant (p=%.4f, effect size: %s).",
			v.PValue, v.EffectSize.Magnitude)
	default:
		return fmt.Sprintf("No statistically significant difference detected (p=%.4f).", v.PValue)
	}
}

func failureText(reason analysis.FailureReason) string {
	switch reason {
	case analysis.ReasonInsufficientData:
		return "insufficient data"
	case analysis.ReasonZeroVariance:
		return "zero variance"
	default:
		return string(reason)
	}
}

func directionText(d analysis.Direction) string {
	if d == analysis.DirectionNoChange {
		return "no change"
	}
	return string(d)
}

func testName(k analysis.TestKind) string {
	if k == analysis.TestWelch {
		return "Welch's t-test"
	}
	return "Mann-Whitney U"
}

func effectName(k analysis.EffectKind) string {
	if k == analysis.EffectCohensD {
		return "Cohen's d"
	}
	return "rank-biserial"
}
