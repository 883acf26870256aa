package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/discochess/loadstat"
	"github.com/discochess/loadstat/internal/codec/zstdcodec"
	"github.com/discochess/loadstat/internal/store"
	"github.com/discochess/loadstat/internal/store/cachedstore"
	"github.com/discochess/loadstat/internal/store/cachedstore/cachestrategy/lru"
	"github.com/discochess/loadstat/internal/store/cachedstore/memory"
	"github.com/discochess/loadstat/internal/store/diskstore"
	"github.com/discochess/loadstat/internal/store/gcsstore"
	"github.com/discochess/loadstat/internal/store/s3store"
)

// cacheSize is the number of decoded baselines kept in memory per run.
const cacheSize = 64

// openStore opens the store selected by --store, or the disk store under
// --data-dir, behind an LRU cache.
func openStore(ctx context.Context) (store.Store, error) {
	base, err := openBaseStore(ctx)
	if err != nil {
		return nil, err
	}

	strategy, err := lru.New(cacheSize)
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("creating LRU strategy: %w", err)
	}
	return cachedstore.New(base, memory.New(strategy, collector)), nil
}

func openBaseStore(ctx context.Context) (store.Store, error) {
	if storeURL == "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		st, err := diskstore.New(dataDir, zstdcodec.New())
		if err != nil {
			return nil, fmt.Errorf("opening data directory: %w", err)
		}
		return st, nil
	}

	u, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parsing --store: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("--store %q has no bucket", storeURL)
	}
	prefix := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "s3":
		opts := []s3store.Option{s3store.WithPrefix(prefix)}
		if s3Region != "" {
			opts = append(opts, s3store.WithRegion(s3Region))
		}
		if s3Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(s3Endpoint))
		}
		st, err := s3store.New(ctx, u.Host, zstdcodec.New(), opts...)
		if err != nil {
			return nil, fmt.Errorf("opening S3 store: %w", err)
		}
		return st, nil
	case "gs":
		st, err := gcsstore.New(ctx, u.Host, zstdcodec.New(), gcsstore.WithPrefix(prefix))
		if err != nil {
			return nil, fmt.Errorf("opening GCS store: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store scheme %q (want s3 or gs)", u.Scheme)
	}
}

// newAnalyzer creates an Analyzer configured from the global flags.
// The baseline store is only opened when withStore is set.
func newAnalyzer(ctx context.Context, withStore bool, opts ...loadstat.Option) (*loadstat.Analyzer, error) {
	base := []loadstat.Option{
		loadstat.WithLogger(logger),
		loadstat.WithStats(collector),
		loadstat.WithPValueMode(mode),
	}
	if withStore {
		st, err := openStore(ctx)
		if err != nil {
			return nil, err
		}
		base = append(base, loadstat.WithStore(st))
	}

	a, err := loadstat.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}
	return a, nil
}
