package cachedstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/loadstat/internal/store"
)

// fakeBackend is a simple in-memory backend for testing.
type fakeBackend struct {
	data   map[string][]byte
	hits   int64
	misses int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string][]byte)}
}

func (b *fakeBackend) Get(scenario string) ([]byte, bool) {
	if data, ok := b.data[scenario]; ok {
		b.hits++
		return data, true
	}
	b.misses++
	return nil, false
}

func (b *fakeBackend) Set(scenario string, data []byte) {
	b.data[scenario] = data
}

func (b *fakeBackend) Stats() Stats {
	return Stats{Hits: b.hits, Misses: b.misses, Size: len(b.data)}
}

// fakeStore is a simple store for testing. It does not implement store.Lister.
type fakeStore struct {
	data   map[string][]byte
	reads  int
	closed bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) ReadBaseline(ctx context.Context, scenario string) ([]byte, error) {
	s.reads++
	if data, ok := s.data[scenario]; ok {
		return data, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeStore) WriteBaseline(ctx context.Context, scenario string, data []byte) error {
	if scenario == "broken" {
		return errors.New("write failed")
	}
	s.data[scenario] = data
	return nil
}

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

// listingStore adds store.Lister to fakeStore.
type listingStore struct {
	*fakeStore
}

func (s listingStore) ListScenarios(ctx context.Context) ([]string, error) {
	return []string{"checkout"}, nil
}

func TestStore_CacheHit(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()

	// Pre-populate cache.
	backend.Set("checkout", []byte("cached data"))

	s := New(underlying, backend)

	data, err := s.ReadBaseline(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("ReadBaseline() error = %v", err)
	}
	if string(data) != "cached data" {
		t.Errorf("ReadBaseline() = %q, want %q", data, "cached data")
	}
	if underlying.reads != 0 {
		t.Errorf("underlying reads = %d, want 0", underlying.reads)
	}

	if got := s.Stats(); got.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", got.Hits)
	}
}

func TestStore_CacheMiss(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()

	// Put data in underlying store, not cache.
	underlying.data["checkout"] = []byte("underlying data")

	s := New(underlying, backend)

	data, err := s.ReadBaseline(context.Background(), "checkout")
	if err != nil {
		t.Fatalf("ReadBaseline() error = %v", err)
	}
	if string(data) != "underlying data" {
		t.Errorf("ReadBaseline() = %q, want %q", data, "underlying data")
	}

	// Should have cached the data.
	if _, ok := backend.data["checkout"]; !ok {
		t.Error("data should be cached after miss")
	}

	if got := s.Stats(); got.Misses != 1 {
		t.Errorf("Stats().Misses = %d, want 1", got.Misses)
	}
}

func TestStore_WriteRefreshesCache(t *testing.T) {
	backend := newFakeBackend()
	underlying := newFakeStore()
	s := New(underlying, backend)
	ctx := context.Background()

	backend.Set("checkout", []byte("old"))

	if err := s.WriteBaseline(ctx, "checkout", []byte("new")); err != nil {
		t.Fatalf("WriteBaseline() error = %v", err)
	}

	data, err := s.ReadBaseline(ctx, "checkout")
	if err != nil {
		t.Fatalf("ReadBaseline() error = %v", err)
	}
	if string(data) != "new" {
		t.Errorf("ReadBaseline() = %q, want %q", data, "new")
	}
	if string(underlying.data["checkout"]) != "new" {
		t.Errorf("underlying = %q, want %q", underlying.data["checkout"], "new")
	}
}

func TestStore_WriteFailureKeepsCache(t *testing.T) {
	backend := newFakeBackend()
	s := New(newFakeStore(), backend)

	backend.Set("broken", []byte("old"))

	if err := s.WriteBaseline(context.Background(), "broken", []byte("new")); err == nil {
		t.Fatal("WriteBaseline() error = nil, want error")
	}
	if string(backend.data["broken"]) != "old" {
		t.Errorf("cache = %q, want %q", backend.data["broken"], "old")
	}
}

func TestStore_NotFound(t *testing.T) {
	s := New(newFakeStore(), newFakeBackend())

	_, err := s.ReadBaseline(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadBaseline() error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListScenarios(t *testing.T) {
	ctx := context.Background()

	s := New(newFakeStore(), newFakeBackend())
	if _, err := s.ListScenarios(ctx); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("ListScenarios() error = %v, want ErrUnsupported", err)
	}

	s = New(listingStore{newFakeStore()}, newFakeBackend())
	got, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("ListScenarios() error = %v", err)
	}
	if len(got) != 1 || got[0] != "checkout" {
		t.Errorf("ListScenarios() = %v, want [checkout]", got)
	}
}

func TestStore_Close(t *testing.T) {
	underlying := newFakeStore()
	s := New(underlying, newFakeBackend())

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !underlying.closed {
		t.Error("underlying store not closed")
	}
}

func TestStats_HitRate(t *testing.T) {
	tests := []struct {
		name     string
		hits     int64
		misses   int64
		expected float64
	}{
		{"no requests", 0, 0, 0},
		{"all hits", 10, 0, 100},
		{"all misses", 0, 10, 0},
		{"50% hit rate", 5, 5, 50},
		{"75% hit rate", 3, 1, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{Hits: tt.hits, Misses: tt.misses}
			if got := s.HitRate(); got != tt.expected {
				t.Errorf("HitRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}
