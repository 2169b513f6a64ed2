// Package loader turns survey project files into snapshots for comparison.
// It supports plain JSON snapshot documents and zipped survey archives.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilupskalvis/apdiff/internal/logging"
	"github.com/kilupskalvis/apdiff/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JSON nor a survey archive.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	// ErrInvalidScale is returned for a floor with a negative or non-finite scale.
	ErrInvalidScale = errors.New("invalid floor scale")
)

// Loader loads a snapshot from a path.
// This interface lets callers substitute fixtures in tests.
type Loader interface {
	Load(ctx context.Context, path string) (*models.Snapshot, error)
}

// FileLoader loads snapshots from the local filesystem
type FileLoader struct {
	logger *slog.Logger
}

// NewFileLoader creates a FileLoader. A nil logger discards output.
func NewFileLoader(logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileLoader{logger: logger}
}

// Load reads the file at path, choosing the format from its extension.
func (l *FileLoader) Load(ctx context.Context, path string) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	label := filepath.Base(path)
	var (
		snap *models.Snapshot
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open snapshot: %w", openErr)
		}
		defer f.Close()
		snap, err = DecodeJSON(f, label)
	case ".esx", ".zip":
		snap, err = l.loadArchive(path, label)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.logger.Debug("snapshot loaded",
		"path", path,
		"floors", len(snap.Floors),
		"access_points", len(snap.AccessPoints))
	return snap, nil
}

// DecodeJSON reads a snapshot document in the models' JSON shape.
func DecodeJSON(r io.Reader, label string) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Label == "" {
		snap.Label = label
	}
	for _, ap := range snap.AccessPoints {
		if ap == nil {
			continue
		}
		for _, r := range ap.Radios {
			if r != nil && r.AccessPointID == "" {
				r.AccessPointID = ap.ID
			}
		}
	}
	if err := normalize(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// normalize fills defaults and validates floor scales.
func normalize(snap *models.Snapshot) error {
	if snap.Floors == nil {
		snap.Floors = make(map[string]*models.Floor)
	}
	if snap.AccessPoints == nil {
		snap.AccessPoints = make([]*models.AccessPoint, 0)
	}

	for id, f := range snap.Floors {
		if f == nil {
			delete(snap.Floors, id)
			continue
		}
		if f.ID == "" {
			f.ID = id
		}
		switch {
		case math.IsNaN(f.MetersPerUnit) || math.IsInf(f.MetersPerUnit, 0) || f.MetersPerUnit < 0:
			return fmt.Errorf("%w: floor %q has meters_per_unit %v", ErrInvalidScale, id, f.MetersPerUnit)
		case f.MetersPerUnit == 0:
			f.MetersPerUnit = 1.0
		}
	}
	return nil
}
