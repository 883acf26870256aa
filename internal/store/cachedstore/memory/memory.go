// Package memory implements an in-memory cache backend.
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/discochess/loadstat/internal/stats"
	"github.com/discochess/loadstat/internal/store/cachedstore"
	"github.com/discochess/loadstat/internal/store/cachedstore/cachestrategy"
)

// Compile-time check that Backend implements cachedstore.Backend.
var _ cachedstore.Backend = (*Backend)(nil)

// Backend is a thread-safe in-memory cache backend.
type Backend struct {
	mu        sync.Mutex // Guards strategy, which need not be thread-safe.
	strategy  cachestrategy.Strategy
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a new memory backend with the given eviction strategy.
// The collector is optional; if nil, a no-op collector is used.
func New(strategy cachestrategy.Strategy, collector stats.Collector) *Backend {
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Backend{
		strategy:  strategy,
		collector: collector,
	}
}

// Get retrieves a scenario's baseline from the cache.
func (b *Backend) Get(scenario string) ([]byte, bool) {
	b.mu.Lock()
	val, ok := b.strategy.Get(scenario)
	b.mu.Unlock()

	if ok {
		b.hits.Add(1)
		b.collector.IncCounter(stats.MetricCacheHits, 1)
		return val, true
	}
	b.misses.Add(1)
	b.collector.IncCounter(stats.MetricCacheMisses, 1)
	return nil, false
}

// Set stores a scenario's baseline in the cache.
func (b *Backend) Set(scenario string, data []byte) {
	b.mu.Lock()
	b.strategy.Add(scenario, data)
	size := b.strategy.Len()
	b.mu.Unlock()

	b.collector.SetGauge(stats.MetricCacheSize, int64(size))
}

// Stats returns current cache statistics.
func (b *Backend) Stats() cachedstore.Stats {
	return cachedstore.Stats{
		Hits:   b.hits.Load(),
		Misses: b.misses.Load(),
		Size:   b.Len(),
	}
}

// Len returns the number of items in the cache.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.strategy.Len()
}
