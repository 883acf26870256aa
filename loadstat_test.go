package loadstat

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/store"
	"github.com/discochess/loadstat/internal/store/memstore"
)

// countingCollector counts increments per metric.
type countingCollector struct {
	mu       sync.Mutex
	counters map[string]int64
	observed map[string]int
}

func newCountingCollector() *countingCollector {
	return &countingCollector{
		counters: make(map[string]int64),
		observed: make(map[string]int),
	}
}

func (c *countingCollector) IncCounter(name string, delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += delta
}

func (c *countingCollector) SetGauge(string, int64) {}

func (c *countingCollector) ObserveHistogram(name string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observed[name]++
}

func (c *countingCollector) count(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

func tile(base float64, offsets []float64, n int) analysis.Sample {
	s := make(analysis.Sample, n)
	for i := range s {
		s[i] = base + offsets[i%len(offsets)]
	}
	return s
}

var (
	steadyBaseline  = tile(100, []float64{0, 2, -2, 1, -1}, 40)
	fasterCandidate = tile(130, []float64{0, -2, 2, -1, 1}, 40)
)

func newTestAnalyzer(t *testing.T, opts ...Option) (*Analyzer, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	a, err := New(append([]Option{WithStore(mem)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, mem
}

func TestNew_Defaults(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Store() != nil {
		t.Error("Store() should be nil without WithStore")
	}
	if a.workers < 1 {
		t.Errorf("workers = %d, want >= 1", a.workers)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	invalid := []Option{
		WithAlpha(0),
		WithAlpha(1.5),
		WithWorkers(0),
		WithPValueMode("bogus"),
		WithPValueMode(""),
	}
	for _, opt := range invalid {
		if _, err := New(opt); err == nil {
			t.Error("New() error = nil, want error")
		}
	}
}

func TestNew_WithStore(t *testing.T) {
	a, mem := newTestAnalyzer(t)
	if a.Store() != mem {
		t.Error("Store() returned unexpected store")
	}
}

func TestAnalyzer_Describe(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	got, err := a.Describe(analysis.Sample{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if got.Mean != 3 || got.P95 != 4 {
		t.Errorf("Describe() = %+v, want mean 3, p95 4", got)
	}

	if _, err := a.Describe(analysis.Sample{1, math.NaN()}); !errors.Is(err, analysis.ErrNonFinite) {
		t.Errorf("Describe(NaN) error = %v, want ErrNonFinite", err)
	}
}

func TestAnalyzer_Compare(t *testing.T) {
	collector := newCountingCollector()
	core, logs := observer.New(zapcore.DebugLevel)
	a, _ := newTestAnalyzer(t, WithStats(collector), WithLogger(zap.New(core)))

	v, err := a.Compare(context.Background(), steadyBaseline, fasterCandidate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if v.Test != analysis.TestWelch || v.Direction != analysis.DirectionImprovement {
		t.Errorf("Compare() = %s %s, want welch improvement", v.Test, v.Direction)
	}

	if got := collector.count(stats.MetricComparisons); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricComparisons, got)
	}
	if got := collector.count(stats.MetricWelchSelected); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricWelchSelected, got)
	}
	if got := collector.count(stats.MetricImprovements); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricImprovements, got)
	}
	if got := collector.observed[stats.MetricSampleSize]; got != 2 {
		t.Errorf("%s observations = %d, want 2", stats.MetricSampleSize, got)
	}
	if logs.FilterMessage("improvement detected").Len() != 1 {
		t.Errorf("expected one improvement log entry, got %v", logs.All())
	}
}

func TestAnalyzer_Compare_Polarity(t *testing.T) {
	a, _ := newTestAnalyzer(t, WithPolarity(analysis.LowerIsBetter))

	v, err := a.Compare(context.Background(), steadyBaseline, fasterCandidate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if v.Direction != analysis.DirectionRegression {
		t.Errorf("Direction = %s, want regression", v.Direction)
	}
}

func TestAnalyzer_Compare_FailureIsNotError(t *testing.T) {
	collector := newCountingCollector()
	a, _ := newTestAnalyzer(t, WithStats(collector))

	v, err := a.Compare(context.Background(), analysis.Sample{1, 2}, analysis.Sample{3, 4})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if _, ok := v.Failure(); !ok {
		t.Errorf("Result = %#v, want *Failure", v.Result)
	}
	if got := collector.count(stats.MetricComparisonFailures); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricComparisonFailures, got)
	}
}

func TestAnalyzer_Compare_Errors(t *testing.T) {
	a, _ := newTestAnalyzer(t)

	if _, err := a.Compare(context.Background(), analysis.Sample{math.Inf(1)}, fasterCandidate); !errors.Is(err, analysis.ErrNonFinite) {
		t.Errorf("Compare(Inf) error = %v, want ErrNonFinite", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Compare(ctx, steadyBaseline, fasterCandidate); !errors.Is(err, context.Canceled) {
		t.Errorf("Compare(canceled) error = %v, want context.Canceled", err)
	}
}

func TestAnalyzer_SaveLoadBaseline(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	recorded := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	a.now = func() time.Time { return recorded }
	ctx := context.Background()

	if err := a.SaveBaseline(ctx, "checkout", steadyBaseline); err != nil {
		t.Fatalf("SaveBaseline() error = %v", err)
	}

	b, err := a.LoadBaseline(ctx, "checkout")
	if err != nil {
		t.Fatalf("LoadBaseline() error = %v", err)
	}
	if b.Scenario != "checkout" || !b.RecordedAt.Equal(recorded) {
		t.Errorf("LoadBaseline() = %s at %v, want checkout at %v", b.Scenario, b.RecordedAt, recorded)
	}
	if len(b.Values) != len(steadyBaseline) {
		t.Errorf("len(Values) = %d, want %d", len(b.Values), len(steadyBaseline))
	}
}

func TestAnalyzer_SaveBaseline_Errors(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	ctx := context.Background()

	if err := a.SaveBaseline(ctx, "bad/name", steadyBaseline); !errors.Is(err, store.ErrInvalidScenario) {
		t.Errorf("SaveBaseline(bad/name) error = %v, want ErrInvalidScenario", err)
	}
	if err := a.SaveBaseline(ctx, "empty", nil); err == nil {
		t.Error("SaveBaseline(empty) error = nil, want error")
	}
}

func TestAnalyzer_CompareScenario(t *testing.T) {
	collector := newCountingCollector()
	a, _ := newTestAnalyzer(t, WithStats(collector))
	ctx := context.Background()

	if _, err := a.CompareScenario(ctx, "checkout", fasterCandidate); !errors.Is(err, ErrBaselineNotFound) {
		t.Fatalf("CompareScenario() error = %v, want ErrBaselineNotFound", err)
	}
	if got := collector.count(stats.MetricBaselineMisses); got != 1 {
		t.Errorf("%s = %d, want 1", stats.MetricBaselineMisses, got)
	}

	if err := a.SaveBaseline(ctx, "checkout", steadyBaseline); err != nil {
		t.Fatalf("SaveBaseline() error = %v", err)
	}

	res, err := a.CompareScenario(ctx, "checkout", fasterCandidate)
	if err != nil {
		t.Fatalf("CompareScenario() error = %v", err)
	}
	if res.Scenario != "checkout" || res.Verdict == nil {
		t.Fatalf("CompareScenario() = %+v", res)
	}
	if res.Verdict.Direction != analysis.DirectionImprovement {
		t.Errorf("Direction = %s, want improvement", res.Verdict.Direction)
	}
	if res.Baseline == nil || res.Baseline.Mean != 100 {
		t.Errorf("Baseline = %+v, want mean 100", res.Baseline)
	}
	if res.Candidate == nil || res.Candidate.Mean != 130 {
		t.Errorf("Candidate = %+v, want mean 130", res.Candidate)
	}
}

func TestAnalyzer_CompareAll(t *testing.T) {
	a, _ := newTestAnalyzer(t, WithWorkers(2), WithPolarity(analysis.LowerIsBetter))
	ctx := context.Background()

	for _, name := range []string{"checkout", "login", "search"} {
		if err := a.SaveBaseline(ctx, name, steadyBaseline); err != nil {
			t.Fatalf("SaveBaseline(%q) error = %v", name, err)
		}
	}

	results, err := a.CompareAll(ctx, map[string]analysis.Sample{
		"search":   steadyBaseline,
		"checkout": fasterCandidate,
		"login":    {1, 2}, // Too small for either test.
		"payments": steadyBaseline,
		"bad/name": steadyBaseline,
	})
	if err != nil {
		t.Fatalf("CompareAll() error = %v", err)
	}

	wantOrder := []string{"bad/name", "checkout", "login", "payments", "search"}
	if len(results) != len(wantOrder) {
		t.Fatalf("CompareAll() returned %d results, want %d", len(results), len(wantOrder))
	}
	for i, r := range results {
		if r.Scenario != wantOrder[i] {
			t.Errorf("results[%d].Scenario = %q, want %q", i, r.Scenario, wantOrder[i])
		}
	}

	byName := make(map[string]*ScenarioResult)
	for _, r := range results {
		byName[r.Scenario] = r
	}

	if !errors.Is(byName["bad/name"].Err, store.ErrInvalidScenario) {
		t.Errorf("bad/name Err = %v, want ErrInvalidScenario", byName["bad/name"].Err)
	}
	if !byName["checkout"].Regressed() {
		t.Errorf("checkout Direction = %s, want regression", byName["checkout"].Verdict.Direction)
	}
	if _, ok := byName["login"].Verdict.Failure(); !ok {
		t.Error("login should carry a test failure")
	}
	if !byName["payments"].Missing || byName["payments"].Verdict != nil {
		t.Errorf("payments = %+v, want Missing", byName["payments"])
	}
	if byName["search"].Verdict.Direction != analysis.DirectionNoChange {
		t.Errorf("search Direction = %s, want no_change", byName["search"].Verdict.Direction)
	}
	if !AnyRegressed(results) {
		t.Error("AnyRegressed() = false, want true")
	}
}

func TestAnalyzer_CompareAll_Canceled(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := a.CompareAll(ctx, map[string]analysis.Sample{"checkout": steadyBaseline})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CompareAll() error = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("CompareAll() returned %d results, want 0", len(results))
	}
}

func TestAnalyzer_ListBaselines(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	ctx := context.Background()

	for _, name := range []string{"search", "checkout"} {
		if err := a.SaveBaseline(ctx, name, steadyBaseline); err != nil {
			t.Fatalf("SaveBaseline() error = %v", err)
		}
	}

	got, err := a.ListBaselines(ctx)
	if err != nil {
		t.Fatalf("ListBaselines() error = %v", err)
	}
	if len(got) != 2 || got[0] != "checkout" || got[1] != "search" {
		t.Errorf("ListBaselines() = %v, want [checkout search]", got)
	}
}

func TestAnalyzer_NoStore(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()
	ctx := context.Background()

	if err := a.SaveBaseline(ctx, "checkout", steadyBaseline); !errors.Is(err, ErrNoStore) {
		t.Errorf("SaveBaseline() error = %v, want ErrNoStore", err)
	}
	if _, err := a.CompareScenario(ctx, "checkout", steadyBaseline); !errors.Is(err, ErrNoStore) {
		t.Errorf("CompareScenario() error = %v, want ErrNoStore", err)
	}
	if _, err := a.CompareAll(ctx, nil); !errors.Is(err, ErrNoStore) {
		t.Errorf("CompareAll() error = %v, want ErrNoStore", err)
	}

	// Comparisons still work.
	if _, err := a.Compare(ctx, steadyBaseline, fasterCandidate); err != nil {
		t.Errorf("Compare() error = %v", err)
	}
}

func TestAnalyzer_Close(t *testing.T) {
	mem := memstore.New()
	a, err := New(WithStore(mem))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// First close should succeed.
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !mem.Closed() {
		t.Error("store not closed")
	}

	// Second close should return ErrClosed.
	if err := a.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Close() second call error = %v, want ErrClosed", err)
	}

	if _, err := a.Compare(context.Background(), steadyBaseline, fasterCandidate); !errors.Is(err, ErrClosed) {
		t.Errorf("Compare() after close error = %v, want ErrClosed", err)
	}
	if _, err := a.LoadBaseline(context.Background(), "checkout"); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadBaseline() after close error = %v, want ErrClosed", err)
	}
}

func TestWithDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"

	opt, err := WithDataDir(dir)
	if err != nil {
		t.Fatalf("WithDataDir() error = %v", err)
	}
	a, err := New(opt)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.SaveBaseline(ctx, "checkout", steadyBaseline); err != nil {
		t.Fatalf("SaveBaseline() error = %v", err)
	}
	if _, err := a.LoadBaseline(ctx, "checkout"); err != nil {
		t.Errorf("LoadBaseline() error = %v", err)
	}
}

func TestAnalyzer_CompareWith(t *testing.T) {
	a, _ := newTestAnalyzer(t, WithPolarity(analysis.LowerIsBetter))
	ctx := context.Background()

	v, err := a.CompareWith(ctx, steadyBaseline, fasterCandidate, analysis.WithPolarity(analysis.HigherIsBetter))
	if err != nil {
		t.Fatalf("CompareWith() error = %v", err)
	}
	if v.Direction != analysis.DirectionImprovement {
		t.Errorf("Direction = %s, want improvement", v.Direction)
	}

	// The override does not stick.
	v, err = a.Compare(ctx, steadyBaseline, fasterCandidate)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if v.Direction != analysis.DirectionRegression {
		t.Errorf("Direction = %s, want regression", v.Direction)
	}
}
