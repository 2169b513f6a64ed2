package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kilupskalvis/apdiff/internal/models"
)

var csvHeader = []string{
	"status", "ap_name", "floor_name", "old_name", "new_name", "distance_moved",
	"category", "field", "old_value", "new_value",
}

// CSV writes one row per field change. Changes without field changes get a
// single row with empty field columns.
func CSV(w io.Writer, res *models.ComparisonResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, c := range res.SortedChanges() {
		distance := ""
		if c.DistanceMoved != nil {
			distance = strconv.FormatFloat(*c.DistanceMoved, 'f', 3, 64)
		}
		base := []string{string(c.Status), c.APName, c.FloorName, c.OldName, c.NewName, distance}

		if len(c.FieldChanges) == 0 {
			if err := cw.Write(append(base, "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, fc := range c.FieldChanges {
			row := append(append([]string{}, base...),
				string(fc.Category), fc.Field,
				models.FormatValue(fc.OldValue), models.FormatValue(fc.NewValue))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
