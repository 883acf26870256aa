package loadstat

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/codec/zstdcodec"
	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/store"
	"github.com/discochess/loadstat/internal/store/diskstore"
)

// Option configures an Analyzer.
type Option interface {
	apply(*options)
}

// options holds the analyzer configuration.
type options struct {
	store      store.Store
	stats      stats.Collector
	logger     *zap.Logger
	pvalueMode analysis.PValueMode
	alpha      float64
	polarity   analysis.Polarity
	workers    int
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:      stats.NewNoop(),
		logger:     zap.NewNop(),
		pvalueMode: analysis.DefaultPValueMode,
		alpha:      analysis.DefaultAlpha,
		polarity:   analysis.HigherIsBetter,
		workers:    runtime.GOMAXPROCS(0),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the baseline storage backend.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithPValueMode selects exact or banded p-values.
// Default is analysis.PValueExact.
func WithPValueMode(m analysis.PValueMode) Option {
	return optionFunc(func(o *options) {
		o.pvalueMode = m
	})
}

// WithAlpha sets the significance level a p-value must fall below for a
// direction to be reported. Default is 0.05.
func WithAlpha(alpha float64) Option {
	return optionFunc(func(o *options) {
		o.alpha = alpha
	})
}

// WithPolarity sets which way the measured metric improves.
// Default is analysis.HigherIsBetter.
func WithPolarity(p analysis.Polarity) Option {
	return optionFunc(func(o *options) {
		o.polarity = p
	})
}

// WithWorkers bounds the number of concurrent comparisons in CompareAll.
// Default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		o.workers = n
	})
}

// WithDataDir stores baselines under dir with zstd compression,
// creating the directory if needed.
// This is the recommended way to create an analyzer for local data.
func WithDataDir(dir string) (Option, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	st, err := diskstore.New(dir, zstdcodec.New())
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	return WithStore(st), nil
}
