package core

import (
	"testing"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFloors() FloorIndex {
	s := newSnapshot("floors")
	return FloorIndex{Old: s.Floors, New: s.Floors}
}

func TestFloorIndex_Scale(t *testing.T) {
	fi := FloorIndex{
		Old: map[string]*models.Floor{"A": {ID: "A", MetersPerUnit: 0.5}},
		New: map[string]*models.Floor{"B": {ID: "B", MetersPerUnit: 0.25}, "Z": {ID: "Z", MetersPerUnit: 0}},
	}

	assert.Equal(t, 0.25, fi.Scale("A", "B"), "new floor wins")
	assert.Equal(t, 0.5, fi.Scale("A", "missing"), "falls back to old floor")
	assert.Equal(t, 0.5, fi.Scale("A", "Z"), "unusable new scale falls back")
	assert.Equal(t, 1.0, fi.Scale("missing", "missing"), "defaults to 1.0")
}

func TestDistance_ConvertsUnitsAndTreatsMissingAsZero(t *testing.T) {
	fi := FloorIndex{
		Old: map[string]*models.Floor{},
		New: map[string]*models.Floor{"F1": {ID: "F1", MetersPerUnit: 0.1}},
	}
	oldAP := &models.AccessPoint{Name: "AP1", FloorID: "F1"}
	newAP := &models.AccessPoint{Name: "AP1", FloorID: "F1", LocationX: models.Float(30), LocationY: models.Float(40)}

	assert.InDelta(t, 5.0, Distance(oldAP, newAP, fi), 1e-9)
}

func TestClassifyPair_Unchanged(t *testing.T) {
	oldAP := makeAP("AP1", "F1", 10, 10)
	assert.Nil(t, ClassifyPair(oldAP, cloneAP(oldAP), 0.5, testFloors()))
}

func TestClassifyPair_ThresholdBoundary(t *testing.T) {
	oldAP := makeAP("AP1", "F1", 0, 0)

	atThreshold := cloneAP(oldAP)
	atThreshold.LocationX = models.Float(0.5)
	assert.Nil(t, ClassifyPair(oldAP, atThreshold, 0.5, testFloors()), "exactly at threshold is not a move")

	atThreshold.Azimuth = 45
	change := ClassifyPair(oldAP, atThreshold, 0.5, testFloors())
	require.NotNil(t, change)
	assert.Equal(t, models.StatusModified, change.Status)
	assert.Nil(t, change.DistanceMoved)

	beyond := cloneAP(oldAP)
	beyond.LocationX = models.Float(0.5 + 1e-6)
	change = ClassifyPair(oldAP, beyond, 0.5, testFloors())
	require.NotNil(t, change)
	assert.Equal(t, models.StatusMoved, change.Status)
	assert.InDelta(t, 0.500001, change.Distance(), 1e-9)
}

func TestClassifyPair_FloorChangeOnlyIsMoved(t *testing.T) {
	oldAP := makeAP("AP1", "F1", 10, 20)
	newAP := cloneAP(oldAP)
	newAP.FloorID = "F2"

	change := ClassifyPair(oldAP, newAP, 0.5, testFloors())
	require.NotNil(t, change)
	assert.Equal(t, models.StatusMoved, change.Status)
	require.NotNil(t, change.DistanceMoved)
	assert.Equal(t, 0.0, *change.DistanceMoved)
	assert.Equal(t, "First", change.FloorName)
	assert.Empty(t, change.FieldChanges)
}

func TestClassifyPair_MovedCarriesFieldChanges(t *testing.T) {
	oldAP := makeAP("AP1", "F1", 0, 0)
	newAP := cloneAP(oldAP)
	newAP.LocationX = models.Float(3)
	newAP.LocationY = models.Float(4)
	newAP.Model = "AP-635"

	change := ClassifyPair(oldAP, newAP, 0.5, testFloors())
	require.NotNil(t, change)
	assert.Equal(t, models.StatusMoved, change.Status)
	assert.InDelta(t, 5.0, change.Distance(), 1e-9)
	assert.Equal(t, 0.0, change.OldCoords.XOrZero())
	assert.Equal(t, 3.0, change.NewCoords.XOrZero())
	require.Len(t, change.FieldChanges, 1)
	assert.Equal(t, "model", change.FieldChanges[0].Field)
	assert.Same(t, oldAP, change.OldAP)
	assert.Same(t, newAP, change.NewAP)
}

func TestClassifyPair_UnknownFloor(t *testing.T) {
	oldAP := makeAP("AP1", "F1", 0, 0)
	newAP := cloneAP(oldAP)
	newAP.FloorID = "basement"

	change := ClassifyPair(oldAP, newAP, 0.5, testFloors())
	require.NotNil(t, change)
	assert.Equal(t, models.StatusMoved, change.Status)
	assert.Equal(t, models.UnknownFloorName, change.FloorName)
}
