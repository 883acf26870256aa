// Package diskloadstatfx provides an fx module for a disk-backed loadstat analyzer.
package diskloadstatfx

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/analysis"
	"github.com/discochess/loadstat/internal/codec/zstdcodec"
	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/stats/logger"
	"github.com/discochess/loadstat/internal/store/cachedstore"
	"github.com/discochess/loadstat/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/loadstat/internal/store/cachedstore/memory"
	"github.com/discochess/loadstat/internal/store/diskstore"
)

// DefaultCacheSize is the number of baselines cached when Config.CacheSize is unset.
const DefaultCacheSize = 100

// Config holds configuration for the disk-backed analyzer.
type Config struct {
	// DataDir is the directory holding stored baselines.
	// It is created if it does not exist.
	DataDir string

	// CacheSize is the number of baselines to cache in memory.
	// Default is 100.
	CacheSize int

	// Alpha, Polarity and PValueMode configure comparisons.
	// Zero values keep the analyzer defaults.
	Alpha      float64
	Polarity   analysis.Polarity
	PValueMode analysis.PValueMode
}

// Module provides a disk-backed analyzer.
// Requires a Config and a *zap.Logger to be provided.
var Module = fx.Module("diskloadstat",
	fx.Provide(
		newStatsCollector,
		newAnalyzer,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("loadstat.stats"))
}

// Params holds dependencies for creating the analyzer.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided analyzer.
type Result struct {
	fx.Out

	Analyzer *loadstat.Analyzer
}

func newAnalyzer(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	if err := os.MkdirAll(p.Config.DataDir, 0o755); err != nil {
		return Result{}, err
	}
	baseStore, err := diskstore.New(p.Config.DataDir, zstdcodec.New())
	if err != nil {
		return Result{}, err
	}

	lruStrategy, err := lru.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	st := cachedstore.New(baseStore, memory.New(lruStrategy, p.Collector))

	opts := []loadstat.Option{
		loadstat.WithStore(st),
		loadstat.WithStats(p.Collector),
		loadstat.WithLogger(p.Logger.Named("loadstat")),
	}
	if p.Config.Polarity != "" {
		opts = append(opts, loadstat.WithPolarity(p.Config.Polarity))
	}
	if p.Config.PValueMode != "" {
		opts = append(opts, loadstat.WithPValueMode(p.Config.PValueMode))
	}
	if p.Config.Alpha != 0 {
		opts = append(opts, loadstat.WithAlpha(p.Config.Alpha))
	}

	a, err := loadstat.New(opts...)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close()
		},
	})

	return Result{Analyzer: a}, nil
}
