// Package report renders comparison results for terminals and files.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/kilupskalvis/apdiff/internal/models"
)

// Options controls the text renderer
type Options struct {
	Patch bool   // Append a unified diff for every paired AP
	Floor string // Only show changes on this floor
}

// Status markers, one per change status
var markers = map[models.ChangeStatus]string{
	models.StatusAdded:    "+++",
	models.StatusRemoved:  "---",
	models.StatusModified: "~~~",
	models.StatusMoved:    ">>>",
	models.StatusRenamed:  "===",
}

type palette struct {
	green, red, yellow, cyan, magenta *color.Color
}

func newPalette() palette {
	return palette{
		green:   color.New(color.FgGreen),
		red:     color.New(color.FgRed),
		yellow:  color.New(color.FgYellow),
		cyan:    color.New(color.FgCyan),
		magenta: color.New(color.FgMagenta),
	}
}

func (p palette) forStatus(s models.ChangeStatus) *color.Color {
	switch s {
	case models.StatusAdded:
		return p.green
	case models.StatusRemoved:
		return p.red
	case models.StatusModified:
		return p.yellow
	case models.StatusMoved:
		return p.cyan
	default:
		return p.magenta
	}
}

// Text writes a human-readable listing of every change in res.
func Text(w io.Writer, res *models.ComparisonResult, opts Options) error {
	p := newPalette()

	fmt.Fprintf(w, "comparison %s\n", res.ShortID())
	fmt.Fprintf(w, "Old: %s\n", res.OldProject)
	fmt.Fprintf(w, "New: %s\n", res.NewProject)
	fmt.Fprintf(w, "Move threshold: %g m\n\n", res.MoveThresholdM)

	if res.Metadata != nil && opts.Floor == "" {
		p.yellow.Fprintf(w, "~~~ project metadata\n")
		for _, fc := range res.Metadata.Changes {
			fmt.Fprintf(w, "    %s\n", fc)
		}
		fmt.Fprintln(w)
	}

	changes := res.SortedChanges()
	if opts.Floor != "" {
		changes = filterFloor(changes, opts.Floor)
	}

	if len(changes) == 0 {
		if res.Metadata == nil || opts.Floor != "" {
			fmt.Fprintln(w, "No changes")
		}
		return nil
	}

	for _, c := range changes {
		writeChange(w, p, c)
		if opts.Patch {
			if diff, err := Patch(c); err != nil {
				return err
			} else if diff != "" {
				fmt.Fprint(w, indent(diff))
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeChange(w io.Writer, p palette, c *models.APChange) {
	col := p.forStatus(c.Status)
	marker := markers[c.Status]

	switch c.Status {
	case models.StatusRenamed:
		col.Fprintf(w, "%s %s -> %s [%s]", marker, c.OldName, c.NewName, c.FloorName)
		if c.DistanceMoved != nil {
			fmt.Fprintf(w, " (%.2f m)", *c.DistanceMoved)
		}
		fmt.Fprintln(w)
	case models.StatusMoved:
		col.Fprintf(w, "%s %s [%s] moved %.2f m\n", marker, c.APName, c.FloorName, c.Distance())
		fmt.Fprintf(w, "    location: %s -> %s\n", formatPoint(c.OldCoords), formatPoint(c.NewCoords))
		if c.OldAP != nil && c.NewAP != nil && c.OldAP.FloorID != c.NewAP.FloorID {
			fmt.Fprintf(w, "    floor_id: %s -> %s\n", c.OldAP.FloorID, c.NewAP.FloorID)
		}
	default:
		col.Fprintf(w, "%s %s [%s]\n", marker, c.APName, c.FloorName)
	}

	for _, category := range []models.ChangeCategory{
		models.CategoryPlacement,
		models.CategoryConfiguration,
		models.CategoryRadio,
	} {
		for _, fc := range c.ChangesIn(category) {
			fmt.Fprintf(w, "    %s\n", fc)
		}
	}
}

func filterFloor(changes []*models.APChange, floor string) []*models.APChange {
	var out []*models.APChange
	for _, c := range changes {
		if c.FloorName == floor {
			out = append(out, c)
		}
	}
	return out
}

func formatPoint(pt *models.Point) string {
	if pt == nil {
		return "(?, ?)"
	}
	return fmt.Sprintf("(%s, %s)", coord(pt.X), coord(pt.Y))
}

func coord(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *v)
}
