package core

import (
	"math"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// FloorIndex gives access to the floors of both snapshots
type FloorIndex struct {
	Old map[string]*models.Floor
	New map[string]*models.Floor
}

// Scale returns the meters-per-unit factor for a pairing: the new floor's,
// else the old floor's, else 1.0.
func (fi FloorIndex) Scale(oldFloorID, newFloorID string) float64 {
	if s, ok := fi.New[newFloorID].Scale(); ok {
		return s
	}
	if s, ok := fi.Old[oldFloorID].Scale(); ok {
		return s
	}
	return 1.0
}

// OldFloorName resolves a floor of the old snapshot
func (fi FloorIndex) OldFloorName(floorID string) string {
	return floorName(fi.Old, floorID)
}

// NewFloorName resolves a floor of the new snapshot
func (fi FloorIndex) NewFloorName(floorID string) string {
	return floorName(fi.New, floorID)
}

func floorName(floors map[string]*models.Floor, floorID string) string {
	if f, ok := floors[floorID]; ok && f != nil && f.Name != "" {
		return f.Name
	}
	return models.UnknownFloorName
}

// Distance returns the distance in meters between the positions of two
// access points. Unknown coordinate components count as 0.
func Distance(oldAP, newAP *models.AccessPoint, floors FloorIndex) float64 {
	op, np := oldAP.Coords(), newAP.Coords()
	dx := np.XOrZero() - op.XOrZero()
	dy := np.YOrZero() - op.YOrZero()
	return math.Hypot(dx, dy) * floors.Scale(oldAP.FloorID, newAP.FloorID)
}

// ClassifyPair classifies two access points matched by name. It returns nil
// when nothing changed. A floor change alone is a move; otherwise a move
// requires a distance strictly greater than moveThreshold.
func ClassifyPair(oldAP, newAP *models.AccessPoint, moveThreshold float64, floors FloorIndex) *models.APChange {
	distance := Distance(oldAP, newAP, floors)
	positionChanged := distance > moveThreshold
	floorChanged := oldAP.FloorID != newAP.FloorID

	fieldChanges := DiffAccessPoints(oldAP, newAP)
	if len(fieldChanges) == 0 && !positionChanged && !floorChanged {
		return nil
	}

	change := &models.APChange{
		APName:       newAP.Name,
		FloorName:    floors.NewFloorName(newAP.FloorID),
		OldAP:        oldAP,
		NewAP:        newAP,
		FieldChanges: fieldChanges,
	}

	if positionChanged || floorChanged {
		change.Status = models.StatusMoved
		change.DistanceMoved = &distance
		change.OldCoords = oldAP.Coords()
		change.NewCoords = newAP.Coords()
		return change
	}

	change.Status = models.StatusModified
	return change
}
