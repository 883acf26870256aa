// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/discochess/loadstat/internal/store"
)

// Compile-time checks that Store implements store.Store and store.Lister.
var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store is an in-memory baseline store.
type Store struct {
	mu        sync.RWMutex
	baselines map[string][]byte
	closed    bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		baselines: make(map[string][]byte),
	}
}

// ReadBaseline returns a copy of the baseline stored for scenario.
func (s *Store) ReadBaseline(ctx context.Context, scenario string) ([]byte, error) {
	if err := store.ValidateScenario(scenario); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.baselines[scenario]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(data), nil
}

// WriteBaseline stores a copy of data for scenario.
// The data is copied to prevent caller mutations from affecting the store.
func (s *Store) WriteBaseline(ctx context.Context, scenario string, data []byte) error {
	if err := store.ValidateScenario(scenario); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[scenario] = clone(data)
	return nil
}

// ListScenarios returns the stored scenario names in sorted order.
func (s *Store) ListScenarios(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.baselines))
	for name := range s.baselines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close marks the store closed. Stored data stays readable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func clone(data []byte) []byte {
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}
