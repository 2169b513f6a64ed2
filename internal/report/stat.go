package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// Stat writes inventory counts and vendor/model distribution deltas.
func Stat(w io.Writer, res *models.ComparisonResult) error {
	p := newPalette()
	inv := res.Inventory

	fmt.Fprintf(w, " %d access points before, %d after\n", inv.OldTotalAPs, inv.NewTotalAPs)
	for _, status := range models.StatusOrder {
		n := inv.Count(status)
		if n == 0 {
			continue
		}
		p.forStatus(status).Fprintf(w, " %d %s(%s)\n", n, status, markers[status][:1])
	}
	fmt.Fprintf(w, " %d unchanged\n", inv.APsUnchanged)
	if res.Metadata != nil {
		p.yellow.Fprintf(w, " %d project metadata fields changed\n", len(res.Metadata.Changes))
	}

	if err := writeDeltas(w, "Vendors", inv.VendorDeltas()); err != nil {
		return err
	}
	return writeDeltas(w, "Models", inv.ModelDeltas())
}

// writeDeltas lists only the keys whose count changed
func writeDeltas(w io.Writer, title string, deltas []models.DistributionDelta) error {
	var changed []models.DistributionDelta
	for _, d := range deltas {
		if d.Delta != 0 {
			changed = append(changed, d)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range changed {
		fmt.Fprintf(tw, "  %s\t%d -> %d\t(%+d)\n", d.Key, d.Old, d.New, d.Delta)
	}
	return tw.Flush()
}
