// Package core implements the comparison engine: field-level diffing of
// access points and radios, name matching with rename and move detection,
// and aggregation into a ComparisonResult.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kilupskalvis/apdiff/internal/logging"
	"github.com/kilupskalvis/apdiff/internal/models"
)

// DefaultMoveThreshold is the default move threshold in meters
const DefaultMoveThreshold = 0.5

var (
	// ErrInvalidThreshold is returned for a move threshold that is not a positive, finite number.
	ErrInvalidThreshold = errors.New("move threshold must be a positive number of meters")
	// ErrNilSnapshot is returned when a snapshot or one of its collections is missing.
	ErrNilSnapshot = errors.New("snapshot is missing required collections")
)

// Recorder receives statistics about finished comparisons.
type Recorder interface {
	ObserveComparison(inv models.InventoryChange, elapsed time.Duration)
	IncPairFailures()
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for skipped pairings and duplicate names.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder sets a statistics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithClock overrides the clock used to timestamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine compares two snapshots of a survey project. It holds no state
// between calls, so one Engine may be shared across goroutines.
type Engine struct {
	moveThreshold float64
	logger        *slog.Logger
	recorder      Recorder
	now           func() time.Time
}

// NewEngine creates an engine that classifies position changes above
// moveThreshold meters as moves.
func NewEngine(moveThreshold float64, opts ...Option) (*Engine, error) {
	if moveThreshold <= 0 || math.IsNaN(moveThreshold) || math.IsInf(moveThreshold, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, moveThreshold)
	}

	e := &Engine{
		moveThreshold: moveThreshold,
		logger:        logging.Discard(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MoveThreshold returns the configured move threshold in meters
func (e *Engine) MoveThreshold() float64 {
	return e.moveThreshold
}

// Compare computes the full comparison between an old and a new snapshot.
func (e *Engine) Compare(oldSnap, newSnap *models.Snapshot) (*models.ComparisonResult, error) {
	if err := validateSnapshot(oldSnap); err != nil {
		return nil, fmt.Errorf("old snapshot: %w", err)
	}
	if err := validateSnapshot(newSnap); err != nil {
		return nil, fmt.Errorf("new snapshot: %w", err)
	}

	start := e.now()
	changes := e.CompareAccessPoints(oldSnap, newSnap)
	inventory := Aggregate(oldSnap.AccessPoints, newSnap.AccessPoints, changes)

	result := &models.ComparisonResult{
		ID:             uuid.NewString(),
		OldProject:     oldSnap.ProjectID(),
		NewProject:     newSnap.ProjectID(),
		Timestamp:      start,
		MoveThresholdM: e.moveThreshold,
		Inventory:      inventory,
		Metadata:       DiffMetadata(oldSnap.Metadata, newSnap.Metadata),
		APChanges:      changes,
		ChangesByFloor: GroupByFloor(changes),
	}

	if e.recorder != nil {
		e.recorder.ObserveComparison(inventory, e.now().Sub(start))
	}
	return result, nil
}

func validateSnapshot(s *models.Snapshot) error {
	if s == nil {
		return ErrNilSnapshot
	}
	if s.Floors == nil {
		return fmt.Errorf("%w: floors", ErrNilSnapshot)
	}
	if s.AccessPoints == nil {
		return fmt.Errorf("%w: access points", ErrNilSnapshot)
	}
	return nil
}
