package core

import (
	"sort"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// apField is one entry of the access point field table
type apField struct {
	name     string
	category models.ChangeCategory
	value    func(ap *models.AccessPoint) interface{}
}

// Fields are evaluated in declaration order so output is stable.
var placementFields = []apField{
	{"mounting_height", models.CategoryPlacement, func(ap *models.AccessPoint) interface{} { return ap.MountingHeight }},
	{"azimuth", models.CategoryPlacement, func(ap *models.AccessPoint) interface{} { return ap.Azimuth }},
	{"tilt", models.CategoryPlacement, func(ap *models.AccessPoint) interface{} { return ap.Tilt }},
}

var configurationFields = []apField{
	{"vendor", models.CategoryConfiguration, func(ap *models.AccessPoint) interface{} { return ap.Vendor }},
	{"model", models.CategoryConfiguration, func(ap *models.AccessPoint) interface{} { return ap.Model }},
	{"color", models.CategoryConfiguration, func(ap *models.AccessPoint) interface{} { return ap.Color }},
	{"enabled", models.CategoryConfiguration, func(ap *models.AccessPoint) interface{} { return ap.Enabled }},
}

// radioField is one entry of the per-band radio field table
type radioField struct {
	name  string
	value func(r *models.Radio) interface{}
}

var radioFields = []radioField{
	{"channel", func(r *models.Radio) interface{} { return r.Channel }},
	{"channel_width", func(r *models.Radio) interface{} { return r.ChannelWidth }},
	{"tx_power", func(r *models.Radio) interface{} { return r.TxPower }},
}

const (
	radioPresent = "present"
	radioRemoved = "removed"
	radioAbsent  = "absent"
	radioAdded   = "added"
)

// DiffAccessPoints returns the field-level differences between two versions
// of the same access point: placement, then configuration, then tags, then
// radios. Floats are compared exactly.
func DiffAccessPoints(oldAP, newAP *models.AccessPoint) []models.FieldChange {
	var changes []models.FieldChange
	changes = appendFieldChanges(changes, placementFields, oldAP, newAP)
	changes = appendFieldChanges(changes, configurationFields, oldAP, newAP)

	if !tagsEqual(oldAP.Tags, newAP.Tags) {
		changes = append(changes, models.FieldChange{
			Field:    "tags",
			Category: models.CategoryConfiguration,
			OldValue: models.CloneTags(oldAP.Tags),
			NewValue: models.CloneTags(newAP.Tags),
		})
	}

	changes = append(changes, DiffRadios(oldAP.Radios, newAP.Radios)...)
	return changes
}

func appendFieldChanges(changes []models.FieldChange, fields []apField, oldAP, newAP *models.AccessPoint) []models.FieldChange {
	for _, f := range fields {
		ov, nv := f.value(oldAP), f.value(newAP)
		if ov != nv {
			changes = append(changes, models.FieldChange{
				Field:    f.name,
				Category: f.category,
				OldValue: ov,
				NewValue: nv,
			})
		}
	}
	return changes
}

// tagsEqual compares tag sets. A nil set equals an empty one.
func tagsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av != bv {
			return false
		}
	}
	return true
}

// DiffRadios compares two radio lists band by band. Field names are
// prefixed with the band, e.g. "5GHz_channel" or "6GHz_radio".
func DiffRadios(oldRadios, newRadios []*models.Radio) []models.FieldChange {
	oldByBand := radiosByBand(oldRadios)
	newByBand := radiosByBand(newRadios)

	var changes []models.FieldChange
	for _, band := range unionBands(oldByBand, newByBand) {
		or, inOld := oldByBand[band]
		nr, inNew := newByBand[band]

		switch {
		case inOld && inNew:
			for _, f := range radioFields {
				ov, nv := f.value(or), f.value(nr)
				if ov != nv {
					changes = append(changes, models.FieldChange{
						Field:    string(band) + "_" + f.name,
						Category: models.CategoryRadio,
						OldValue: ov,
						NewValue: nv,
					})
				}
			}
		case inOld:
			changes = append(changes, models.FieldChange{
				Field:    string(band) + "_radio",
				Category: models.CategoryRadio,
				OldValue: radioPresent,
				NewValue: radioRemoved,
			})
		default:
			changes = append(changes, models.FieldChange{
				Field:    string(band) + "_radio",
				Category: models.CategoryRadio,
				OldValue: radioAbsent,
				NewValue: radioAdded,
			})
		}
	}
	return changes
}

// radiosByBand keeps one radio per band; a later radio on the same band
// replaces an earlier one.
func radiosByBand(radios []*models.Radio) map[models.FrequencyBand]*models.Radio {
	m := make(map[models.FrequencyBand]*models.Radio, len(radios))
	for _, r := range radios {
		if r != nil {
			m[r.FrequencyBand] = r
		}
	}
	return m
}

// bandRank orders the well-known bands by frequency; others sort after them by name.
var bandRank = map[models.FrequencyBand]int{
	models.Band24GHz: 0,
	models.Band5GHz:  1,
	models.Band6GHz:  2,
}

func unionBands(a, b map[models.FrequencyBand]*models.Radio) []models.FrequencyBand {
	seen := make(map[models.FrequencyBand]struct{}, len(a)+len(b))
	bands := make([]models.FrequencyBand, 0, len(a)+len(b))
	for _, m := range []map[models.FrequencyBand]*models.Radio{a, b} {
		for band := range m {
			if _, ok := seen[band]; !ok {
				seen[band] = struct{}{}
				bands = append(bands, band)
			}
		}
	}

	sort.Slice(bands, func(i, j int) bool {
		ri, iKnown := bandRank[bands[i]]
		rj, jKnown := bandRank[bands[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return bands[i] < bands[j]
		}
	})
	return bands
}
