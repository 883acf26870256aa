package gcsstore

import (
	"context"
	"errors"
	"testing"

	"github.com/discochess/loadstat/internal/codec/gzipcodec"
	"github.com/discochess/loadstat/internal/codec/noopcodec"
	"github.com/discochess/loadstat/internal/codec/zstdcodec"
	"github.com/discochess/loadstat/internal/store"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			opt := WithPrefix(tt.input)
			opt(s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_baselineKey(t *testing.T) {
	tests := []struct {
		name     string
		store    *Store
		scenario string
		want     string
	}{
		{"zstd", &Store{codec: zstdcodec.New()}, "checkout", "baselines/checkout.json.zst"},
		{"gzip with prefix", &Store{codec: gzipcodec.New(), prefix: "perf/"}, "checkout", "perf/baselines/checkout.json.gz"},
		{"noop", &Store{codec: noopcodec.New()}, "search_p99", "baselines/search_p99.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.store.baselineKey(tt.scenario); got != tt.want {
				t.Errorf("baselineKey(%q) = %q, want %q", tt.scenario, got, tt.want)
			}
		})
	}
}

// Invalid names are rejected before any bucket access, so a zero Store
// is enough here.
func TestStore_InvalidScenario(t *testing.T) {
	s := &Store{codec: zstdcodec.New()}
	ctx := context.Background()

	if _, err := s.ReadBaseline(ctx, "../etc"); !errors.Is(err, store.ErrInvalidScenario) {
		t.Errorf("ReadBaseline() error = %v, want ErrInvalidScenario", err)
	}
	if err := s.WriteBaseline(ctx, "", nil); !errors.Is(err, store.ErrInvalidScenario) {
		t.Errorf("WriteBaseline() error = %v, want ErrInvalidScenario", err)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := &Store{codec: zstdcodec.New()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadBaseline(ctx, "checkout"); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadBaseline() error = %v, want context.Canceled", err)
	}
}
