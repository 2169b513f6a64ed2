// Package batch runs many snapshot comparisons described by a TOML manifest.
package batch

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultWorkers is used when a manifest does not set workers.
const DefaultWorkers = 4

// Pair names two snapshot files to compare
type Pair struct {
	Name string `toml:"name"`
	Old  string `toml:"old"`
	New  string `toml:"new"`
}

// Manifest describes a batch of comparisons
type Manifest struct {
	Workers       int     `toml:"workers"`
	MoveThreshold float64 `toml:"move_threshold_m,omitempty"` // Zero means use the configured threshold
	Pairs         []Pair  `toml:"pair"`
}

// LoadManifest reads a manifest file. Relative snapshot paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range m.Pairs {
		m.Pairs[i].Old = resolve(dir, m.Pairs[i].Old)
		m.Pairs[i].New = resolve(dir, m.Pairs[i].New)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest TOML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Workers == 0 {
		m.Workers = DefaultWorkers
	}
	return &m, nil
}

// Validate checks pair fields, name uniqueness, and numeric settings.
func (m *Manifest) Validate() error {
	if m.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", m.Workers)
	}
	if m.MoveThreshold < 0 || math.IsNaN(m.MoveThreshold) || math.IsInf(m.MoveThreshold, 0) {
		return fmt.Errorf("move_threshold_m must be a positive number, got %v", m.MoveThreshold)
	}
	if len(m.Pairs) == 0 {
		return fmt.Errorf("manifest has no [[pair]] entries")
	}

	seen := make(map[string]bool, len(m.Pairs))
	for i, p := range m.Pairs {
		if p.Name == "" || p.Old == "" || p.New == "" {
			return fmt.Errorf("pair %d: name, old and new are required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate pair name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Threshold returns the manifest's move threshold, or fallback when unset.
func (m *Manifest) Threshold(fallback float64) float64 {
	if m.MoveThreshold > 0 {
		return m.MoveThreshold
	}
	return fallback
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
