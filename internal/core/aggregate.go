package core

import (
	"github.com/kilupskalvis/apdiff/internal/models"
)

// Aggregate computes inventory statistics. Status counts come from changes;
// vendor and model distributions come from the access point lists directly.
func Aggregate(oldAPs, newAPs []*models.AccessPoint, changes []*models.APChange) models.InventoryChange {
	inv := models.InventoryChange{
		OldTotalAPs: countAPs(oldAPs),
		NewTotalAPs: countAPs(newAPs),
	}

	for _, c := range changes {
		switch c.Status {
		case models.StatusAdded:
			inv.APsAdded++
		case models.StatusRemoved:
			inv.APsRemoved++
		case models.StatusModified:
			inv.APsModified++
		case models.StatusMoved:
			inv.APsMoved++
		case models.StatusRenamed:
			inv.APsRenamed++
		}
	}

	// Removed access points are not part of newAPs, so they are not subtracted.
	inv.APsUnchanged = inv.NewTotalAPs - (inv.APsAdded + inv.APsModified + inv.APsMoved + inv.APsRenamed)

	inv.OldVendorCounts, inv.OldModelCounts = distribution(oldAPs)
	inv.NewVendorCounts, inv.NewModelCounts = distribution(newAPs)
	return inv
}

func countAPs(aps []*models.AccessPoint) int {
	n := 0
	for _, ap := range aps {
		if ap != nil {
			n++
		}
	}
	return n
}

func distribution(aps []*models.AccessPoint) (map[string]int, map[string]int) {
	vendors := make(map[string]int)
	vendorModels := make(map[string]int)
	for _, ap := range aps {
		if ap == nil {
			continue
		}
		vendor := orUnknown(ap.Vendor)
		vendors[vendor]++
		vendorModels[vendor+"|"+orUnknown(ap.Model)]++
	}
	return vendors, vendorModels
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownBucket
	}
	return s
}

// GroupByFloor groups changes by floor name, keeping their relative order.
func GroupByFloor(changes []*models.APChange) map[string][]*models.APChange {
	byFloor := make(map[string][]*models.APChange)
	for _, c := range changes {
		byFloor[c.FloorName] = append(byFloor[c.FloorName], c)
	}
	return byFloor
}

// metadataField is one entry of the project metadata field table
type metadataField struct {
	name  string
	value func(m models.ProjectMetadata) string
}

var metadataFields = []metadataField{
	{"name", func(m models.ProjectMetadata) string { return m.Name }},
	{"customer", func(m models.ProjectMetadata) string { return m.Customer }},
	{"location", func(m models.ProjectMetadata) string { return m.Location }},
	{"responsible_person", func(m models.ProjectMetadata) string { return m.ResponsiblePerson }},
}

// DiffMetadata compares project metadata. It returns nil when nothing differs.
func DiffMetadata(oldMeta, newMeta models.ProjectMetadata) *models.MetadataChange {
	var changes []models.FieldChange
	for _, f := range metadataFields {
		ov, nv := f.value(oldMeta), f.value(newMeta)
		if ov != nv {
			changes = append(changes, models.FieldChange{
				Field:    f.name,
				Category: models.CategoryMetadata,
				OldValue: ov,
				NewValue: nv,
			})
		}
	}

	if len(changes) == 0 {
		return nil
	}
	return &models.MetadataChange{
		Old:     oldMeta,
		New:     newMeta,
		Changes: changes,
	}
}
