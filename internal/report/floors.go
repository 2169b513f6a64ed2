package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// Floors writes a per-floor table of change counts by status.
func Floors(w io.Writer, res *models.ComparisonResult) error {
	names := res.FloorNames()
	if len(names) == 0 {
		fmt.Fprintln(w, "No changes")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "FLOOR")
	for _, status := range models.StatusOrder {
		fmt.Fprintf(tw, "\t%s", status)
	}
	fmt.Fprint(tw, "\ttotal\n")

	for _, name := range names {
		counts := make(map[models.ChangeStatus]int, len(models.StatusOrder))
		changes := res.ChangesByFloor[name]
		for _, c := range changes {
			counts[c.Status]++
		}
		fmt.Fprint(tw, name)
		for _, status := range models.StatusOrder {
			fmt.Fprintf(tw, "\t%d", counts[status])
		}
		fmt.Fprintf(tw, "\t%d\n", len(changes))
	}
	return tw.Flush()
}
