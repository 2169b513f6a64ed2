package models

import (
	"sort"
	"time"
)

// UnknownBucket is the distribution key for access points without a vendor or model.
const UnknownBucket = "Unknown"

// InventoryChange summarises access point counts across both snapshots.
// It is always recomputed from scratch for a comparison.
type InventoryChange struct {
	OldTotalAPs  int `json:"old_total_aps"`
	NewTotalAPs  int `json:"new_total_aps"`
	APsAdded     int `json:"aps_added"`
	APsRemoved   int `json:"aps_removed"`
	APsModified  int `json:"aps_modified"`
	APsMoved     int `json:"aps_moved"`
	APsRenamed   int `json:"aps_renamed"`
	APsUnchanged int `json:"aps_unchanged"`

	OldVendorCounts map[string]int `json:"old_vendor_counts"`
	NewVendorCounts map[string]int `json:"new_vendor_counts"`
	OldModelCounts  map[string]int `json:"old_model_counts"` // Keyed "vendor|model"
	NewModelCounts  map[string]int `json:"new_model_counts"`
}

// Count returns the number of changes with the given status.
func (i *InventoryChange) Count(status ChangeStatus) int {
	switch status {
	case StatusAdded:
		return i.APsAdded
	case StatusRemoved:
		return i.APsRemoved
	case StatusModified:
		return i.APsModified
	case StatusMoved:
		return i.APsMoved
	case StatusRenamed:
		return i.APsRenamed
	}
	return 0
}

// DistributionDelta is the before/after count for one vendor or vendor|model key
type DistributionDelta struct {
	Key   string `json:"key"`
	Old   int    `json:"old"`
	New   int    `json:"new"`
	Delta int    `json:"delta"`
}

// VendorDeltas returns per-vendor count changes sorted by vendor.
func (i *InventoryChange) VendorDeltas() []DistributionDelta {
	return distributionDeltas(i.OldVendorCounts, i.NewVendorCounts)
}

// ModelDeltas returns per vendor|model count changes sorted by key.
func (i *InventoryChange) ModelDeltas() []DistributionDelta {
	return distributionDeltas(i.OldModelCounts, i.NewModelCounts)
}

func distributionDeltas(old, new map[string]int) []DistributionDelta {
	keys := make(map[string]struct{}, len(old)+len(new))
	for k := range old {
		keys[k] = struct{}{}
	}
	for k := range new {
		keys[k] = struct{}{}
	}

	deltas := make([]DistributionDelta, 0, len(keys))
	for k := range keys {
		deltas = append(deltas, DistributionDelta{
			Key:   k,
			Old:   old[k],
			New:   new[k],
			Delta: new[k] - old[k],
		})
	}
	sort.Slice(deltas, func(a, b int) bool { return deltas[a].Key < deltas[b].Key })
	return deltas
}

// MetadataChange holds project metadata before and after. It only exists
// when at least one field differs.
type MetadataChange struct {
	Old     ProjectMetadata `json:"old"`
	New     ProjectMetadata `json:"new"`
	Changes []FieldChange   `json:"changes"`
}

// ComparisonResult is the complete output of comparing two snapshots
type ComparisonResult struct {
	ID             string                 `json:"id"`
	OldProject     string                 `json:"old_project"`
	NewProject     string                 `json:"new_project"`
	Timestamp      time.Time              `json:"timestamp"`
	MoveThresholdM float64                `json:"move_threshold_m"`
	Inventory      InventoryChange        `json:"inventory"`
	Metadata       *MetadataChange        `json:"metadata,omitempty"`
	APChanges      []*APChange            `json:"ap_changes"`
	ChangesByFloor map[string][]*APChange `json:"changes_by_floor"`
}

// ShortID returns a shortened comparison ID (first 8 characters)
func (r *ComparisonResult) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// TotalChanges returns the number of access point changes
func (r *ComparisonResult) TotalChanges() int {
	return len(r.APChanges)
}

// HasChanges returns true if any access point or project metadata changed
func (r *ComparisonResult) HasChanges() bool {
	return len(r.APChanges) > 0 || r.Metadata != nil
}

// SortedChanges returns the changes ordered by status, floor, then name.
// The stored order is left untouched.
func (r *ComparisonResult) SortedChanges() []*APChange {
	out := make([]*APChange, len(r.APChanges))
	copy(out, r.APChanges)
	SortChanges(out)
	return out
}

// FloorNames returns the floors that have changes, sorted by name.
func (r *ComparisonResult) FloorNames() []string {
	names := make([]string, 0, len(r.ChangesByFloor))
	for name := range r.ChangesByFloor {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortChanges orders changes by status, floor, then name, in place.
func SortChanges(changes []*APChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Status != b.Status {
			return a.Status.Rank() < b.Status.Rank()
		}
		if a.FloorName != b.FloorName {
			return a.FloorName < b.FloorName
		}
		return a.APName < b.APName
	})
}

// ComparisonRecord is the summary of a stored comparison
type ComparisonRecord struct {
	ID           string    `json:"id"`
	OldProject   string    `json:"old_project"`
	NewProject   string    `json:"new_project"`
	Timestamp    time.Time `json:"timestamp"`
	TotalChanges int       `json:"total_changes"`
}

// ShortID returns a shortened comparison ID (first 8 characters)
func (c *ComparisonRecord) ShortID() string {
	if len(c.ID) > 8 {
		return c.ID[:8]
	}
	return c.ID
}
