package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *ComparisonResult {
	dist := 2.5
	moved := &APChange{
		Status:        StatusMoved,
		APName:        "AP-2",
		FloorName:     "Ground",
		DistanceMoved: &dist,
		OldCoords:     &Point{X: Float(1), Y: nil},
		NewCoords:     &Point{X: Float(3.5), Y: Float(0)},
		FieldChanges: []FieldChange{
			{Field: "tags", Category: CategoryConfiguration, OldValue: map[string]string{"b": "2", "a": "1"}, NewValue: nil},
		},
	}
	added := &APChange{Status: StatusAdded, APName: "AP-9", FloorName: "First"}
	renamed := &APChange{Status: StatusRenamed, APName: "AP-1b", FloorName: "Ground", OldName: "AP-1", NewName: "AP-1b"}

	return &ComparisonResult{
		ID:             "0123456789abcdef",
		OldProject:     "v1",
		NewProject:     "v2",
		Timestamp:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		MoveThresholdM: 0.5,
		Inventory:      InventoryChange{OldTotalAPs: 2, NewTotalAPs: 3, APsMoved: 1, APsAdded: 1, APsRenamed: 1},
		APChanges:      []*APChange{moved, added, renamed},
		ChangesByFloor: map[string][]*APChange{"Ground": {moved, renamed}, "First": {added}},
	}
}

func TestComparisonResult_SortedChanges(t *testing.T) {
	r := sampleResult()
	sorted := r.SortedChanges()

	names := make([]string, len(sorted))
	for i, c := range sorted {
		names[i] = c.APName
	}
	assert.Equal(t, []string{"AP-9", "AP-2", "AP-1b"}, names)
	assert.Equal(t, "AP-2", r.APChanges[0].APName, "stored order untouched")
}

func TestComparisonResult_ToMap(t *testing.T) {
	r := sampleResult()
	m := r.ToMap()

	assert.Equal(t, "2026-01-02T03:04:05Z", m["timestamp"])
	assert.Nil(t, m["metadata_changes"])

	summary := m["summary"].(map[string]interface{})
	assert.Equal(t, 1, summary["aps_moved"])

	changes := m["ap_changes"].([]interface{})
	require.Len(t, changes, 3)
	moved := changes[0].(map[string]interface{})
	assert.Equal(t, "moved", moved["status"])
	assert.Equal(t, 2.5, moved["distance_moved"])
	assert.Equal(t, map[string]interface{}{"x": 1.0, "y": nil}, moved["old_coords"])

	fields := moved["field_changes"].([]interface{})
	fc := fields[0].(map[string]interface{})
	assert.Equal(t, "{a=1, b=2}", fc["old_value"])
	assert.Nil(t, fc["new_value"])

	renamed := changes[2].(map[string]interface{})
	assert.Equal(t, "AP-1", renamed["old_name"])

	byFloor := m["changes_by_floor"].(map[string]interface{})
	assert.Equal(t, []interface{}{"AP-2", "AP-1b"}, byFloor["Ground"])

	_, err := json.Marshal(m)
	assert.NoError(t, err)
}

func TestComparisonResult_Helpers(t *testing.T) {
	r := sampleResult()
	assert.Equal(t, "01234567", r.ShortID())
	assert.Equal(t, 3, r.TotalChanges())
	assert.True(t, r.HasChanges())
	assert.Equal(t, []string{"First", "Ground"}, r.FloorNames())
	assert.Equal(t, 1, r.Inventory.Count(StatusRenamed))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<none>", FormatValue(nil))
	assert.Equal(t, `""`, FormatValue(""))
	assert.Equal(t, "2.4", FormatValue(2.4))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "{x=1}", FormatValue(map[string]interface{}{"x": 1}))
	assert.Equal(t, "tilt: 0 -> 15", FieldChange{Field: "tilt", OldValue: 0.0, NewValue: 15.0}.String())
}

func TestSnapshot_FloorNameAndProjectID(t *testing.T) {
	s := &Snapshot{
		Label:  "site.esx",
		Floors: map[string]*Floor{"f": {ID: "f", Name: "Roof"}},
	}
	assert.Equal(t, "Roof", s.FloorName("f"))
	assert.Equal(t, UnknownFloorName, s.FloorName("nope"))
	assert.Equal(t, "site.esx", s.ProjectID())

	s.Metadata.Name = "Campus"
	assert.Equal(t, "Campus", s.ProjectID())
}
