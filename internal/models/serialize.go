package models

import "time"

// ToMap returns the serializable form of the result: nested maps and slices
// of primitives and strings only, ready for JSON or template rendering.
func (r *ComparisonResult) ToMap() map[string]interface{} {
	inv := r.Inventory
	out := map[string]interface{}{
		"id":               r.ID,
		"old_project":      r.OldProject,
		"new_project":      r.NewProject,
		"timestamp":        r.Timestamp.UTC().Format(time.RFC3339),
		"move_threshold_m": r.MoveThresholdM,
		"summary": map[string]interface{}{
			"old_total_aps": inv.OldTotalAPs,
			"new_total_aps": inv.NewTotalAPs,
			"aps_added":     inv.APsAdded,
			"aps_removed":   inv.APsRemoved,
			"aps_modified":  inv.APsModified,
			"aps_moved":     inv.APsMoved,
			"aps_renamed":   inv.APsRenamed,
			"aps_unchanged": inv.APsUnchanged,
		},
		"old_vendor_counts": countsToMap(inv.OldVendorCounts),
		"new_vendor_counts": countsToMap(inv.NewVendorCounts),
		"old_model_counts":  countsToMap(inv.OldModelCounts),
		"new_model_counts":  countsToMap(inv.NewModelCounts),
	}

	if r.Metadata != nil {
		changes := make([]interface{}, len(r.Metadata.Changes))
		for i, fc := range r.Metadata.Changes {
			changes[i] = fc.toMap()
		}
		out["metadata_changes"] = changes
	} else {
		out["metadata_changes"] = nil
	}

	changes := make([]interface{}, len(r.APChanges))
	for i, c := range r.APChanges {
		changes[i] = c.ToMap()
	}
	out["ap_changes"] = changes

	byFloor := make(map[string]interface{}, len(r.ChangesByFloor))
	for floor, list := range r.ChangesByFloor {
		names := make([]interface{}, len(list))
		for i, c := range list {
			names[i] = c.APName
		}
		byFloor[floor] = names
	}
	out["changes_by_floor"] = byFloor

	return out
}

// ToMap returns the serializable form of a single access point change.
func (c *APChange) ToMap() map[string]interface{} {
	out := map[string]interface{}{
		"status":     string(c.Status),
		"ap_name":    c.APName,
		"floor_name": c.FloorName,
	}
	if c.OldName != "" || c.NewName != "" {
		out["old_name"] = c.OldName
		out["new_name"] = c.NewName
	}
	if c.DistanceMoved != nil {
		out["distance_moved"] = *c.DistanceMoved
	}
	if c.OldCoords != nil {
		out["old_coords"] = pointToMap(c.OldCoords)
	}
	if c.NewCoords != nil {
		out["new_coords"] = pointToMap(c.NewCoords)
	}
	if c.OldAP != nil {
		out["old_vendor"] = c.OldAP.Vendor
		out["old_model"] = c.OldAP.Model
	}
	if c.NewAP != nil {
		out["new_vendor"] = c.NewAP.Vendor
		out["new_model"] = c.NewAP.Model
	}

	fields := make([]interface{}, len(c.FieldChanges))
	for i, fc := range c.FieldChanges {
		fields[i] = fc.toMap()
	}
	out["field_changes"] = fields
	return out
}

func (f FieldChange) toMap() map[string]interface{} {
	return map[string]interface{}{
		"field":     f.Field,
		"category":  string(f.Category),
		"old_value": primitive(f.OldValue),
		"new_value": primitive(f.NewValue),
	}
}

// primitive converts tag sets and pointers to string/number forms.
func primitive(v interface{}) interface{} {
	switch val := v.(type) {
	case nil, string, bool, int, float64:
		return val
	case *float64:
		if val == nil {
			return nil
		}
		return *val
	default:
		return FormatValue(val)
	}
}

func pointToMap(p *Point) map[string]interface{} {
	out := map[string]interface{}{"x": nil, "y": nil}
	if p.X != nil {
		out["x"] = *p.X
	}
	if p.Y != nil {
		out["y"] = *p.Y
	}
	return out
}

func countsToMap(counts map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
