// Package loadstat compares baseline and candidate performance-test samples
// and decides whether the candidate is an improvement, a regression or no
// change.
//
// Example usage:
//
//	opt, err := loadstat.WithDataDir("/path/to/data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := loadstat.New(opt, loadstat.WithPolarity(analysis.LowerIsBetter))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	res, err := a.CompareScenario(ctx, "checkout", latencies)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Verdict.Summary())
package loadstat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/baseline"
	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrBaselineNotFound indicates no baseline is stored for a scenario.
	ErrBaselineNotFound = errors.New("loadstat: baseline not found")

	// ErrClosed indicates the analyzer has been closed.
	ErrClosed = errors.New("loadstat: analyzer closed")

	// ErrNoStore indicates a baseline operation on an analyzer without a store.
	ErrNoStore = errors.New("loadstat: no store provided")
)

// Analyzer runs comparisons and manages stored baselines.
// An Analyzer is safe for concurrent use by multiple goroutines.
type Analyzer struct {
	store       store.Store
	stats       stats.Collector
	logger      *zap.Logger
	compareOpts []analysis.CompareOption
	workers     int
	now         func() time.Time
	closed      atomic.Bool
}

// New creates a new Analyzer with the given options.
// Without a store, Compare and Describe work but the baseline operations
// return ErrNoStore.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.alpha <= 0 || cfg.alpha >= 1 {
		return nil, fmt.Errorf("loadstat: alpha %v outside (0, 1)", cfg.alpha)
	}
	if !cfg.pvalueMode.Valid() {
		return nil, fmt.Errorf("loadstat: unknown p-value mode %q", cfg.pvalueMode)
	}
	if cfg.workers < 1 {
		return nil, fmt.Errorf("loadstat: workers must be positive, got %d", cfg.workers)
	}

	a := &Analyzer{
		store:  cfg.store,
		stats:  cfg.stats,
		logger: cfg.logger,
		compareOpts: []analysis.CompareOption{
			analysis.WithPValueMode(cfg.pvalueMode),
			analysis.WithAlpha(cfg.alpha),
			analysis.WithPolarity(cfg.polarity),
		},
		workers: cfg.workers,
		now:     time.Now,
	}

	a.logger.Debug("analyzer initialized",
		zap.String("pvalueMode", string(cfg.pvalueMode)),
		zap.Float64("alpha", cfg.alpha),
		zap.String("polarity", string(cfg.polarity)),
		zap.Int("workers", cfg.workers),
		zap.Bool("store", cfg.store != nil),
	)

	return a, nil
}

// Describe validates s and returns its descriptive summary.
func (a *Analyzer) Describe(s analysis.Sample) (*analysis.DescriptiveSummary, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return analysis.Describe(s)
}

// Compare compares candidate against baseline.
// A test that cannot be computed is reported inside the verdict, not as an
// error; errors are reserved for invalid input, cancellation and Close.
func (a *Analyzer) Compare(ctx context.Context, baseline, candidate analysis.Sample) (*analysis.ComparisonVerdict, error) {
	return a.CompareWith(ctx, baseline, candidate)
}

// CompareWith is Compare with per-call options that override the
// analyzer's configuration.
func (a *Analyzer) CompareWith(ctx context.Context, baseline, candidate analysis.Sample, opts ...analysis.CompareOption) (*analysis.ComparisonVerdict, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := baseline.Validate(); err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	v := analysis.Compare(baseline, candidate, a.options(opts)...)
	a.record("", len(baseline), len(candidate), v)
	return v, nil
}

// CompareScenario compares candidate against the stored baseline of
// scenario. It returns ErrBaselineNotFound when none has been saved.
func (a *Analyzer) CompareScenario(ctx context.Context, scenario string, candidate analysis.Sample) (*ScenarioResult, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	b, err := a.LoadBaseline(ctx, scenario)
	if err != nil {
		return nil, err
	}

	base := b.Sample()
	v := analysis.Compare(base, candidate, a.compareOpts...)
	a.record(scenario, len(base), len(candidate), v)

	res := &ScenarioResult{
		Scenario:   scenario,
		RecordedAt: b.RecordedAt,
		Verdict:    v,
	}
	res.Baseline, _ = analysis.Describe(base)
	res.Candidate, _ = analysis.Describe(candidate)
	return res, nil
}

// CompareAll compares each candidate against its scenario's stored baseline
// using at most the configured number of workers. Results are sorted by
// scenario name.
//
// A scenario without a baseline is marked Missing. Any other per-scenario
// problem is recorded in that result's Err and does not stop the rest.
// Cancellation is observed between comparisons; when ctx is done the
// results gathered so far are returned with ctx's error.
func (a *Analyzer) CompareAll(ctx context.Context, candidates map[string]analysis.Sample) ([]*ScenarioResult, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if a.store == nil {
		return nil, ErrNoStore
	}

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*ScenarioResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.compareOne(gctx, name, candidates[name])
			return nil
		})
	}

	err := g.Wait()

	done := results[:0]
	for _, r := range results {
		if r != nil {
			done = append(done, r)
		}
	}
	return done, err
}

func (a *Analyzer) compareOne(ctx context.Context, scenario string, candidate analysis.Sample) *ScenarioResult {
	res, err := a.CompareScenario(ctx, scenario, candidate)
	switch {
	case err == nil:
		return res
	case errors.Is(err, ErrBaselineNotFound):
		res = &ScenarioResult{Scenario: scenario, Missing: true}
	default:
		a.logger.Warn("scenario comparison failed",
			zap.String("scenario", scenario),
			zap.Error(err),
		)
		res = &ScenarioResult{Scenario: scenario, Err: err}
	}
	res.Candidate, _ = analysis.Describe(candidate)
	return res
}

// SaveBaseline records sample as the baseline for scenario, replacing any
// previous one.
func (a *Analyzer) SaveBaseline(ctx context.Context, scenario string, sample analysis.Sample) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	if err := store.ValidateScenario(scenario); err != nil {
		return err
	}

	b, err := baseline.New(scenario, sample, a.now())
	if err != nil {
		return fmt.Errorf("baseline %s: %w", scenario, err)
	}
	data, err := baseline.Encode(b)
	if err != nil {
		return err
	}
	if err := a.store.WriteBaseline(ctx, scenario, data); err != nil {
		return fmt.Errorf("saving baseline %s: %w", scenario, err)
	}

	a.stats.IncCounter(stats.MetricBaselineWrites, 1)
	a.logger.Info("baseline saved",
		zap.String("scenario", scenario),
		zap.Int("n", len(sample)),
		zap.Float64("mean", b.Summary.Mean),
	)
	return nil
}

// LoadBaseline returns the stored baseline for scenario.
// It returns ErrBaselineNotFound when none has been saved.
func (a *Analyzer) LoadBaseline(ctx context.Context, scenario string) (*baseline.Baseline, error) {
	if err := a.checkStore(); err != nil {
		return nil, err
	}

	a.stats.IncCounter(stats.MetricBaselineReads, 1)
	data, err := a.store.ReadBaseline(ctx, scenario)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.stats.IncCounter(stats.MetricBaselineMisses, 1)
			return nil, fmt.Errorf("%w: %s", ErrBaselineNotFound, scenario)
		}
		return nil, fmt.Errorf("loading baseline %s: %w", scenario, err)
	}

	b, err := baseline.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading baseline %s: %w", scenario, err)
	}
	return b, nil
}

// ListBaselines returns the scenarios that have a stored baseline.
// The store must implement store.Lister.
func (a *Analyzer) ListBaselines(ctx context.Context) ([]string, error) {
	if err := a.checkStore(); err != nil {
		return nil, err
	}
	lister, ok := a.store.(store.Lister)
	if !ok {
		return nil, fmt.Errorf("loadstat: listing baselines: %w", errors.ErrUnsupported)
	}
	return lister.ListScenarios(ctx)
}

// Close releases all resources associated with the analyzer.
// After Close, the analyzer should not be used.
func (a *Analyzer) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}

	return nil
}

// Store returns the storage backend used by this analyzer, or nil.
func (a *Analyzer) Store() store.Store {
	return a.store
}

func (a *Analyzer) options(extra []analysis.CompareOption) []analysis.CompareOption {
	if len(extra) == 0 {
		return a.compareOpts
	}
	opts := make([]analysis.CompareOption, 0, len(a.compareOpts)+len(extra))
	return append(append(opts, a.compareOpts...), extra...)
}

func (a *Analyzer) checkStore() error {
	if a.closed.Load() {
		return ErrClosed
	}
	if a.store == nil {
		return ErrNoStore
	}
	return nil
}

// record updates metrics and logs one comparison.
func (a *Analyzer) record(scenario string, n1, n2 int, v *analysis.ComparisonVerdict) {
	a.stats.IncCounter(stats.MetricComparisons, 1)
	a.stats.ObserveHistogram(stats.MetricSampleSize, float64(n1))
	a.stats.ObserveHistogram(stats.MetricSampleSize, float64(n2))

	switch v.Test {
	case analysis.TestWelch:
		a.stats.IncCounter(stats.MetricWelchSelected, 1)
	case analysis.TestMannWhitney:
		a.stats.IncCounter(stats.MetricMannWhitneySelected, 1)
	}

	fields := []zap.Field{
		zap.String("scenario", scenario),
		zap.String("test", string(v.Test)),
		zap.Int("baselineN", n1),
		zap.Int("candidateN", n2),
	}

	if f, ok := v.Failure(); ok {
		a.stats.IncCounter(stats.MetricComparisonFailures, 1)
		a.logger.Warn("comparison failed", append(fields, zap.String("reason", string(f.Reason)))...)
		return
	}

	fields = append(fields,
		zap.Float64("pValue", v.PValue),
		zap.Float64("effect", v.EffectSize.Value),
		zap.Float64("percentChange", v.PercentChange),
		zap.String("direction", string(v.Direction)),
	)

	switch v.Direction {
	case analysis.DirectionRegression:
		a.stats.IncCounter(stats.MetricRegressions, 1)
		a.logger.Info("regression detected", fields...)
	case analysis.DirectionImprovement:
		a.stats.IncCounter(stats.MetricImprovements, 1)
		a.logger.Info("improvement detected", fields...)
	default:
		a.logger.Debug("no significant change", fields...)
	}
}
