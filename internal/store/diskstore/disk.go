// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/discochess/loadstat/internal/codec"
	"github.com/discochess/loadstat/internal/store"
)

// Compile-time checks that Store implements store.Store and store.Lister.
var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store keeps one compressed file per scenario under <root>/baselines.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory.
// The directory must exist. The codec handles compression/decompression.
func New(root string, codec codec.Codec) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: codec,
	}, nil
}

// ReadBaseline reads and decompresses the baseline for scenario.
func (s *Store) ReadBaseline(ctx context.Context, scenario string) ([]byte, error) {
	if err := store.ValidateScenario(scenario); err != nil {
		return nil, err
	}
	// Check for cancellation before starting I/O.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compressed, err := os.ReadFile(s.baselinePath(scenario))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	data, err := codec.Decode(s.codec, compressed)
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", scenario, err)
	}
	return data, nil
}

// WriteBaseline compresses data and replaces the scenario's file.
// The file is written to a temporary name and renamed into place, so
// readers never observe a partial baseline.
func (s *Store) WriteBaseline(ctx context.Context, scenario string, data []byte) error {
	if err := store.ValidateScenario(scenario); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	compressed, err := codec.Encode(s.codec, data)
	if err != nil {
		return fmt.Errorf("baseline %s: %w", scenario, err)
	}

	dir := filepath.Join(s.root, store.BaselineDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating baseline directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+scenario+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename.

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("writing baseline: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing baseline: %w", err)
	}

	if err := os.Rename(tmpName, s.baselinePath(scenario)); err != nil {
		return fmt.Errorf("renaming baseline: %w", err)
	}
	return nil
}

// ListScenarios returns the scenarios that have a baseline file.
func (s *Store) ListScenarios(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, store.BaselineDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing baselines: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := store.ScenarioFromObject(e.Name(), s.codec.Extension()); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

// baselinePath returns the filesystem path for a scenario's baseline.
func (s *Store) baselinePath(scenario string) string {
	return filepath.Join(s.root, store.BaselineDir, store.ObjectName(scenario, s.codec.Extension()))
}
