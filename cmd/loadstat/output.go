package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/baseline"
	"github.com/discochess/loadstat/reporting"
)

// Output formats.
const (
	formatText     = "text"
	formatPipe     = "pipe"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"
)

// report is implemented by reporting.MarkdownReport and reporting.HTMLReport.
type report interface {
	WriteHeader(title string)
	WriteMethodology(mode analysis.PValueMode, alpha float64, polarity analysis.Polarity)
	WriteSummaryTable(summaries map[string]*analysis.DescriptiveSummary)
	WriteComparison(name string, v *analysis.ComparisonVerdict)
	WriteScenarioResults(results []*loadstat.ScenarioResult)
	WriteResults(results []reporting.ScenarioResults, charts []string)
	WriteFooter()
}

// withReport runs fn against a Markdown or HTML report on w.
func withReport(w io.Writer, fn func(report)) error {
	if format == formatHTML {
		r := reporting.NewHTMLReport(w)
		fn(r)
		return r.Flush()
	}
	fn(reporting.NewMarkdownReport(w))
	return nil
}

func printSummary(w io.Writer, name string, s *analysis.DescriptiveSummary) error {
	switch format {
	case formatJSON:
		return reporting.WriteJSON(w, s)
	case formatPipe:
		// mean|median|stdev|min|max|p90|p95|p99|ci_lower|ci_upper|variance
		fmt.Fprintln(w, pipeJoin(s.Mean, s.Median, s.StdDev, s.Min, s.Max,
			s.P90, s.P95, s.P99, s.CILower, s.CIUpper, s.Variance))
		return nil
	case formatMarkdown, formatHTML:
		return withReport(w, func(r report) {
			r.WriteSummaryTable(map[string]*analysis.DescriptiveSummary{name: s})
		})
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "N:\t%d\n", s.N)
		fmt.Fprintf(tw, "Mean:\t%.4f\n", s.Mean)
		fmt.Fprintf(tw, "Median:\t%.4f\n", s.Median)
		fmt.Fprintf(tw, "Std Dev:\t%.4f\n", s.StdDev)
		fmt.Fprintf(tw, "Variance:\t%.4f\n", s.Variance)
		fmt.Fprintf(tw, "Min:\t%.4f\n", s.Min)
		fmt.Fprintf(tw, "Max:\t%.4f\n", s.Max)
		fmt.Fprintf(tw, "P90:\t%.4f\n", s.P90)
		fmt.Fprintf(tw, "P95:\t%.4f\n", s.P95)
		fmt.Fprintf(tw, "P99:\t%.4f\n", s.P99)
		fmt.Fprintf(tw, "95%% CI:\t[%.4f, %.4f]\n", s.CILower, s.CIUpper)
		return tw.Flush()
	}
}

func printNormality(w io.Writer, v analysis.NormalityVerdict) error {
	switch format {
	case formatJSON:
		return reporting.WriteJSON(w, v)
	case formatPipe:
		fmt.Fprintf(w, "%s|skew=%.4f|kurt=%.4f\n", v.Status, v.Skewness, v.Kurtosis)
		return nil
	default:
		fmt.Fprintf(w, "Status:   %s\n", v.Status)
		fmt.Fprintf(w, "Skewness: %.4f\n", v.Skewness)
		fmt.Fprintf(w, "Kurtosis: %.4f\n", v.Kurtosis)
		return nil
	}
}

func printVerdict(w io.Writer, name string, v *analysis.ComparisonVerdict, alpha float64, polarity analysis.Polarity) error {
	switch format {
	case formatJSON:
		return reporting.WriteJSON(w, v)
	case formatPipe:
		fmt.Fprintln(w, pipeVerdict(v))
		return nil
	case formatMarkdown, formatHTML:
		return withReport(w, func(r report) {
			r.WriteHeader("Load Test Comparison")
			r.WriteMethodology(mode, alpha, polarity)
			r.WriteComparison(name, v)
			r.WriteFooter()
		})
	default:
		fmt.Fprintf(w, "Test:       %s\n", v.Test)
		fmt.Fprintf(w, "Normality:  baseline %s, candidate %s\n", v.BaselineNormality.Status, v.CandidateNormality.Status)
		fmt.Fprintf(w, "Mean:       %.4f -> %.4f (%+.2f%%)\n", v.BaselineMean, v.CandidateMean, v.PercentChange)
		if f, ok := v.Failure(); ok {
			fmt.Fprintf(w, "Result:     cannot compare (%s)\n", f.Reason)
			return nil
		}
		fmt.Fprintf(w, "P-value:    %.6f\n", v.PValue)
		fmt.Fprintf(w, "Effect:     %s %.4f (%s)\n", v.EffectSize.Kind, v.EffectSize.Value, v.EffectSize.Magnitude)
		fmt.Fprintf(w, "Direction:  %s\n", v.Direction)
		return nil
	}
}

// pipeVerdict renders test|stat|stat2|p|status|effect|baseline|candidate.
func pipeVerdict(v *analysis.ComparisonVerdict) string {
	var stat1, stat2, effect float64
	status := "success"
	switch r := v.Result.(type) {
	case *analysis.WelchResult:
		stat1, stat2 = r.TStatistic, r.DegreesOfFreedom
	case *analysis.MannWhitneyResult:
		stat1, stat2 = r.U, r.ZScore
	case *analysis.Failure:
		status = string(r.Reason)
	}
	if v.EffectSize != nil {
		effect = v.EffectSize.Value
	}
	return fmt.Sprintf("%s|%.6f|%.6f|%.6f|%s|%.6f|%s|%s",
		v.Test, stat1, stat2, v.PValue, status, effect,
		v.BaselineNormality.Status, v.CandidateNormality.Status)
}

func printScenarioResults(w io.Writer, results []*loadstat.ScenarioResult, alpha float64, polarity analysis.Polarity) error {
	switch format {
	case formatJSON:
		return reporting.WriteJSON(w, jsonResults(results))
	case formatPipe:
		for _, r := range results {
			switch {
			case r.Missing:
				fmt.Fprintf(w, "%s|missing\n", r.Scenario)
			case r.Err != nil:
				fmt.Fprintf(w, "%s|error|%s\n", r.Scenario, r.Err)
			default:
				fmt.Fprintf(w, "%s|%s|%s\n", r.Scenario, r.Verdict.Direction, pipeVerdict(r.Verdict))
			}
		}
		return nil
	case formatMarkdown, formatHTML:
		return withReport(w, func(rep report) {
			rep.WriteHeader("Load Test Check")
			rep.WriteMethodology(mode, alpha, polarity)
			rep.WriteScenarioResults(results)
			for _, r := range results {
				if r.Verdict != nil {
					rep.WriteComparison(r.Scenario, r.Verdict)
				}
			}
			rep.WriteFooter()
		})
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCENARIO\tTEST\tP-VALUE\tCHANGE\tRESULT")
		for _, r := range results {
			switch {
			case r.Missing:
				fmt.Fprintf(tw, "%s\t-\t-\t-\tno baseline\n", r.Scenario)
			case r.Err != nil:
				fmt.Fprintf(tw, "%s\t-\t-\t-\terror: %s\n", r.Scenario, r.Err)
			default:
				v := r.Verdict
				result := string(v.Direction)
				if f, ok := v.Failure(); ok {
					result = "cannot compare (" + string(f.Reason) + ")"
				}
				fmt.Fprintf(tw, "%s\t%s\t%.4f\t%+.2f%%\t%s\n", r.Scenario, v.Test, v.PValue, v.PercentChange, result)
			}
		}
		return tw.Flush()
	}
}

// jsonResult adds the error text that ScenarioResult omits from JSON.
type jsonResult struct {
	*loadstat.ScenarioResult
	Error string `json:"error,omitempty"`
}

func jsonResults(results []*loadstat.ScenarioResult) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{ScenarioResult: r, Error: r.ErrorMessage()}
	}
	return out
}

func printBaseline(w io.Writer, b *baseline.Baseline) error {
	if format == formatJSON {
		return reporting.WriteJSON(w, b)
	}
	fmt.Fprintf(w, "Scenario:    %s\n", b.Scenario)
	fmt.Fprintf(w, "Recorded at: %s\n", b.RecordedAt.Format(time.RFC3339))
	return printSummary(w, b.Scenario, b.Summary)
}

func pipeJoin(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return strings.Join(parts, "|")
}
