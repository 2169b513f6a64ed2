package core

import (
	"fmt"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// CompareAccessPoints matches access points across two snapshots and returns
// one change per differing pairing. Unchanged access points are omitted.
//
// Access points are matched by name first. Among the names left over, an
// old and a new access point on the same floor closer than the move
// threshold are reported as a rename; the first new candidate in snapshot
// order wins. Whatever remains is reported as removed or added.
//
// The returned order is matched pairs, renames, removals, additions.
func (e *Engine) CompareAccessPoints(oldSnap, newSnap *models.Snapshot) []*models.APChange {
	floors := FloorIndex{Old: oldSnap.Floors, New: newSnap.Floors}

	oldByName, oldNames := e.indexByName(oldSnap.AccessPoints, "old")
	newByName, newNames := e.indexByName(newSnap.AccessPoints, "new")

	var matched, onlyOld, onlyNew []string
	for _, name := range oldNames {
		if _, ok := newByName[name]; ok {
			matched = append(matched, name)
		} else {
			onlyOld = append(onlyOld, name)
		}
	}
	for _, name := range newNames {
		if _, ok := oldByName[name]; !ok {
			onlyNew = append(onlyNew, name)
		}
	}

	changes := make([]*models.APChange, 0)
	for _, name := range matched {
		oldAP, newAP := oldByName[name], newByName[name]
		change := e.isolate(name, func() *models.APChange {
			return ClassifyPair(oldAP, newAP, e.moveThreshold, floors)
		})
		if change != nil {
			changes = append(changes, change)
		}
	}

	renames, claimedOld, claimedNew := e.detectRenames(onlyOld, onlyNew, oldByName, newByName, floors)
	changes = append(changes, renames...)

	for _, name := range onlyOld {
		if claimedOld[name] {
			continue
		}
		ap := oldByName[name]
		changes = append(changes, &models.APChange{
			Status:    models.StatusRemoved,
			APName:    ap.Name,
			FloorName: floors.OldFloorName(ap.FloorID),
			OldAP:     ap,
		})
	}

	for _, name := range onlyNew {
		if claimedNew[name] {
			continue
		}
		ap := newByName[name]
		changes = append(changes, &models.APChange{
			Status:    models.StatusAdded,
			APName:    ap.Name,
			FloorName: floors.NewFloorName(ap.FloorID),
			NewAP:     ap,
		})
	}

	return changes
}

// indexByName maps access points by name and returns the names in first-seen
// order. When a name repeats, the later access point replaces the earlier one.
func (e *Engine) indexByName(aps []*models.AccessPoint, side string) (map[string]*models.AccessPoint, []string) {
	byName := make(map[string]*models.AccessPoint, len(aps))
	names := make([]string, 0, len(aps))
	for _, ap := range aps {
		if ap == nil {
			continue
		}
		if _, seen := byName[ap.Name]; seen {
			e.logger.Debug("duplicate access point name, keeping the later one",
				"snapshot", side, "name", ap.Name, "id", ap.ID)
		} else {
			names = append(names, ap.Name)
		}
		byName[ap.Name] = ap
	}
	return byName, names
}

// detectRenames greedily pairs unmatched old and new access points that sit
// on the same floor within the move threshold.
func (e *Engine) detectRenames(onlyOld, onlyNew []string, oldByName, newByName map[string]*models.AccessPoint, floors FloorIndex) ([]*models.APChange, map[string]bool, map[string]bool) {
	claimedOld := make(map[string]bool)
	claimedNew := make(map[string]bool)
	renames := make([]*models.APChange, 0)

	for _, oldName := range onlyOld {
		oldAP := oldByName[oldName]
		for _, newName := range onlyNew {
			if claimedNew[newName] {
				continue
			}
			newAP := newByName[newName]
			if oldAP.FloorID != newAP.FloorID {
				continue
			}
			distance := Distance(oldAP, newAP, floors)
			if distance >= e.moveThreshold {
				continue
			}

			claimedOld[oldName] = true
			claimedNew[newName] = true
			renames = append(renames, &models.APChange{
				Status:        models.StatusRenamed,
				APName:        newAP.Name,
				FloorName:     floors.NewFloorName(newAP.FloorID),
				OldAP:         oldAP,
				NewAP:         newAP,
				OldName:       oldAP.Name,
				NewName:       newAP.Name,
				DistanceMoved: &distance,
				OldCoords:     oldAP.Coords(),
				NewCoords:     newAP.Coords(),
			})
			break
		}
	}

	return renames, claimedOld, claimedNew
}

// isolate runs one classification. A panic is logged and the pairing skipped.
func (e *Engine) isolate(name string, classify func() *models.APChange) (change *models.APChange) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("skipping access point after classification failure",
				"name", name, "error", fmt.Sprint(r))
			if e.recorder != nil {
				e.recorder.IncPairFailures()
			}
			change = nil
		}
	}()
	return classify()
}
