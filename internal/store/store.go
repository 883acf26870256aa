// Package store defines the storage backend interface for baseline samples.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFound is returned when no baseline exists for a scenario.
	ErrNotFound = errors.New("store: baseline not found")

	// ErrInvalidScenario is returned for scenario names that cannot be
	// used as a storage key.
	ErrInvalidScenario = errors.New("store: invalid scenario name")
)

// Store defines the interface for storage backends.
// Implementations handle path formats and storage details internally.
type Store interface {
	// ReadBaseline reads the encoded baseline recorded for scenario.
	// It returns ErrNotFound when none has been written.
	ReadBaseline(ctx context.Context, scenario string) ([]byte, error)

	// WriteBaseline replaces the baseline recorded for scenario.
	WriteBaseline(ctx context.Context, scenario string, data []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// Lister is implemented by stores that can enumerate their scenarios.
type Lister interface {
	// ListScenarios returns the names of all stored scenarios, sorted.
	ListScenarios(ctx context.Context) ([]string, error)
}

// BaselineDir is the directory or key prefix that holds baseline objects.
const BaselineDir = "baselines"

// baselineSuffix precedes any codec extension in an object name.
const baselineSuffix = ".json"

var scenarioPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateScenario checks that name is usable as a storage key:
// non-empty, made of letters, digits, '.', '_' and '-', and not a
// relative path element.
func ValidateScenario(name string) error {
	if !scenarioPattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidScenario, name)
	}
	return nil
}

// ObjectName returns the object name for a scenario, such as
// "checkout.json.zst" for the "zst" extension.
func ObjectName(scenario, ext string) string {
	name := scenario + baselineSuffix
	if ext != "" {
		name += "." + ext
	}
	return name
}

// ScenarioFromObject reverses ObjectName. It returns false for names
// that do not belong to a baseline with the given extension.
func ScenarioFromObject(name, ext string) (string, bool) {
	suffix := baselineSuffix
	if ext != "" {
		suffix += "." + ext
	}
	scenario, ok := strings.CutSuffix(name, suffix)
	if !ok || ValidateScenario(scenario) != nil {
		return "", false
	}
	return scenario, true
}
