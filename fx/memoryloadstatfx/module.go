// Package memoryloadstatfx provides an fx module for an in-memory loadstat analyzer.
// Useful for testing.
package memoryloadstatfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/stats/logger"
	"github.com/discochess/loadstat/internal/store/memstore"
)

// Module provides an in-memory analyzer for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryloadstat",
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

	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided analyzer and store.
type Result struct {
	fx.Out

	Analyzer *loadstat.Analyzer
	Store    *memstore.Store // Exposed for test setup
}

func newAnalyzer(p Params) (Result, error) {
	st := memstore.New()

	a, err := loadstat.New(
		loadstat.WithStore(st),
		loadstat.WithStats(p.Collector),
		loadstat.WithLogger(p.Logger.Named("loadstat")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return a.Close()
		},
	})

	return Result{
		Analyzer: a,
		Store:    st,
	}, nil
}
