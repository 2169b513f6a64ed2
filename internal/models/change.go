package models

import "fmt"

// ChangeCategory groups field-level changes for reporting
type ChangeCategory string

const (
	CategoryPlacement     ChangeCategory = "placement"
	CategoryConfiguration ChangeCategory = "configuration"
	CategoryRadio         ChangeCategory = "radio"
	CategoryMetadata      ChangeCategory = "metadata"
)

// FieldChange is a single differing field between two versions of the same entity
type FieldChange struct {
	Field    string         `json:"field"`
	Category ChangeCategory `json:"category"`
	OldValue interface{}    `json:"old_value"`
	NewValue interface{}    `json:"new_value"`
}

// String formats the change as "field: old -> new".
func (f FieldChange) String() string {
	return fmt.Sprintf("%s: %s -> %s", f.Field, FormatValue(f.OldValue), FormatValue(f.NewValue))
}

// ChangeStatus is the classification assigned to an access point pairing
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusRemoved  ChangeStatus = "removed"
	StatusModified ChangeStatus = "modified"
	StatusMoved    ChangeStatus = "moved"
	StatusRenamed  ChangeStatus = "renamed"
)

// StatusOrder is the order statuses are listed in reports.
var StatusOrder = []ChangeStatus{
	StatusAdded,
	StatusRemoved,
	StatusModified,
	StatusMoved,
	StatusRenamed,
}

// Rank returns the position of the status in StatusOrder.
func (s ChangeStatus) Rank() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return len(StatusOrder)
}

// APChange describes how one access point differs between two snapshots.
// Unchanged access points never produce an APChange.
type APChange struct {
	Status    ChangeStatus `json:"status"`
	APName    string       `json:"ap_name"` // Most recent name
	FloorName string       `json:"floor_name"`
	OldAP     *AccessPoint `json:"old_ap,omitempty"`
	NewAP     *AccessPoint `json:"new_ap,omitempty"`

	// Renamed only
	OldName string `json:"old_name,omitempty"`
	NewName string `json:"new_name,omitempty"`

	// Moved and Renamed. Unknown coordinate components count as 0 in
	// DistanceMoved; check OldCoords/NewCoords before relying on it.
	DistanceMoved *float64 `json:"distance_moved,omitempty"`
	OldCoords     *Point   `json:"old_coords,omitempty"`
	NewCoords     *Point   `json:"new_coords,omitempty"`

	// Modified and Moved only
	FieldChanges []FieldChange `json:"field_changes,omitempty"`
}

// Distance returns the distance moved in meters, or 0 if not recorded.
func (c *APChange) Distance() float64 {
	if c.DistanceMoved == nil {
		return 0
	}
	return *c.DistanceMoved
}

// ChangesIn returns the field changes belonging to the given category.
func (c *APChange) ChangesIn(category ChangeCategory) []FieldChange {
	var out []FieldChange
	for _, fc := range c.FieldChanges {
		if fc.Category == category {
			out = append(out, fc)
		}
	}
	return out
}

// FormatValue renders a field value for reports.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "<none>"
	case string:
		if val == "" {
			return `""`
		}
		return val
	case *float64:
		if val == nil {
			return "<none>"
		}
		return fmt.Sprintf("%g", *val)
	case float64:
		return fmt.Sprintf("%g", val)
	case map[string]string:
		return formatTags(val)
	case map[string]interface{}:
		tags := make(map[string]string, len(val))
		for k, tv := range val {
			tags[k] = fmt.Sprint(tv)
		}
		return formatTags(tags)
	default:
		return fmt.Sprint(val)
	}
}
