package cachedstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/discochess/loadstat/internal/store"
)

// Compile-time checks that Store implements store.Store and store.Lister.
var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store wraps another Store with a read-through, write-through cache.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// ReadBaseline reads a baseline, checking the cache first.
func (s *Store) ReadBaseline(ctx context.Context, scenario string) ([]byte, error) {
	// Check cache first.
	if data, ok := s.backend.Get(scenario); ok {
		return data, nil
	}

	// Cache miss - read from underlying store.
	data, err := s.underlying.ReadBaseline(ctx, scenario)
	if err != nil {
		return nil, err
	}

	// Cache the result.
	s.backend.Set(scenario, data)

	return data, nil
}

// WriteBaseline writes to the underlying store and then refreshes the
// cached copy, so a later read never returns the replaced baseline.
func (s *Store) WriteBaseline(ctx context.Context, scenario string, data []byte) error {
	if err := s.underlying.WriteBaseline(ctx, scenario, data); err != nil {
		return err
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	s.backend.Set(scenario, copied)
	return nil
}

// ListScenarios delegates to the underlying store. Listing is never cached.
func (s *Store) ListScenarios(ctx context.Context) ([]string, error) {
	lister, ok := s.underlying.(store.Lister)
	if !ok {
		return nil, fmt.Errorf("cachedstore: listing scenarios: %w", errors.ErrUnsupported)
	}
	return lister.ListScenarios(ctx)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
