package core

import (
	"testing"
	"time"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/stretchr/testify/require"
)

// newTestEngine creates an engine with a fixed clock for testing.
func newTestEngine(t *testing.T, threshold float64, opts ...Option) *Engine {
	t.Helper()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	e, err := NewEngine(threshold, opts...)
	require.NoError(t, err)
	return e
}

// makeAP creates an enabled access point at (x, y) on the given floor.
func makeAP(name, floorID string, x, y float64) *models.AccessPoint {
	return &models.AccessPoint{
		ID:             "id-" + name,
		Name:           name,
		FloorID:        floorID,
		Vendor:         "Cisco",
		Model:          "AP-515",
		Enabled:        true,
		MountingHeight: 2.4,
		LocationX:      models.Float(x),
		LocationY:      models.Float(y),
	}
}

// cloneAP returns a deep copy so tests can mutate the new side freely.
func cloneAP(ap *models.AccessPoint) *models.AccessPoint {
	c := *ap
	if ap.LocationX != nil {
		c.LocationX = models.Float(*ap.LocationX)
	}
	if ap.LocationY != nil {
		c.LocationY = models.Float(*ap.LocationY)
	}
	c.Tags = models.CloneTags(ap.Tags)
	c.Radios = make([]*models.Radio, len(ap.Radios))
	for i, r := range ap.Radios {
		rc := *r
		c.Radios[i] = &rc
	}
	return &c
}

// newSnapshot creates a snapshot with floors F1 and F2 at 1 meter per unit.
func newSnapshot(label string, aps ...*models.AccessPoint) *models.Snapshot {
	return &models.Snapshot{
		Label:    label,
		Metadata: models.ProjectMetadata{Name: "HQ Survey"},
		Floors: map[string]*models.Floor{
			"F1": {ID: "F1", Name: "Ground", MetersPerUnit: 1.0, FloorNumber: 0},
			"F2": {ID: "F2", Name: "First", MetersPerUnit: 1.0, FloorNumber: 1},
		},
		AccessPoints: aps,
	}
}

func statuses(changes []*models.APChange) []models.ChangeStatus {
	out := make([]models.ChangeStatus, len(changes))
	for i, c := range changes {
		out[i] = c.Status
	}
	return out
}
