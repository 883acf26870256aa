// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/discochess/loadstat/internal/codec"
	"github.com/discochess/loadstat/internal/store"
)

// Compile-time checks that Store implements store.Store and store.Lister.
var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		codec:  c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// ReadBaseline reads and decompresses the baseline for scenario.
func (s *Store) ReadBaseline(ctx context.Context, scenario string) ([]byte, error) {
	if err := store.ValidateScenario(scenario); err != nil {
		return nil, err
	}
	// Check for cancellation before starting.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := s.bucket.Object(s.baselineKey(scenario)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()

	// Decompress using codec.
	decompressor, err := s.codec.Reader(reader)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer decompressor.Close()

	data, err := io.ReadAll(decompressor)
	if err != nil {
		return nil, fmt.Errorf("decompressing baseline: %w", err)
	}

	return data, nil
}

// WriteBaseline compresses data and uploads it as the scenario's object.
// The object only becomes visible once the writer is closed.
func (s *Store) WriteBaseline(ctx context.Context, scenario string, data []byte) error {
	if err := store.ValidateScenario(scenario); err != nil {
		return err
	}

	w := s.bucket.Object(s.baselineKey(scenario)).NewWriter(ctx)
	w.ContentType = "application/json"

	compressor, err := s.codec.Writer(w)
	if err != nil {
		w.Close()
		return fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := compressor.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing baseline: %w", err)
	}
	if err := compressor.Close(); err != nil {
		w.Close()
		return fmt.Errorf("flushing compressor: %w", err)
	}
	// The noop codec hands back w itself, which is then already closed.
	if compressor == io.WriteCloser(w) {
		return nil
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("uploading baseline: %w", err)
	}
	return nil
}

// ListScenarios iterates over the baseline prefix and returns the
// scenario names found there.
func (s *Store) ListScenarios(ctx context.Context) ([]string, error) {
	dir := s.prefix + store.BaselineDir + "/"
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: dir})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing baselines: %w", err)
		}
		if name, ok := store.ScenarioFromObject(strings.TrimPrefix(attrs.Name, dir), s.codec.Extension()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// baselineKey returns the full object key for a scenario.
func (s *Store) baselineKey(scenario string) string {
	return s.prefix + store.BaselineDir + "/" + store.ObjectName(scenario, s.codec.Extension())
}
