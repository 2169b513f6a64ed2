package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/pmezard/go-difflib/difflib"
)

// Patch returns a unified diff between the old and new property listings
// of a paired access point. Added and removed changes yield "".
func Patch(c *models.APChange) (string, error) {
	if c.OldAP == nil || c.NewAP == nil {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Describe(c.OldAP)),
		B:        difflib.SplitLines(Describe(c.NewAP)),
		FromFile: "a/" + c.OldAP.Name,
		ToFile:   "b/" + c.NewAP.Name,
		Context:  3,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("patch %s: %w", c.APName, err)
	}
	return out, nil
}

// Describe lists the comparable properties of an access point, one per line.
func Describe(ap *models.AccessPoint) string {
	var b strings.Builder
	line := func(k string, v interface{}) {
		fmt.Fprintf(&b, "%s: %s\n", k, models.FormatValue(v))
	}

	line("name", ap.Name)
	line("floor_id", ap.FloorID)
	line("location", formatPoint(ap.Coords()))
	line("mounting_height", ap.MountingHeight)
	line("azimuth", ap.Azimuth)
	line("tilt", ap.Tilt)
	line("vendor", ap.Vendor)
	line("model", ap.Model)
	line("color", ap.Color)
	line("enabled", ap.Enabled)
	if len(ap.Tags) > 0 {
		line("tags", ap.Tags)
	}

	radios := make([]*models.Radio, 0, len(ap.Radios))
	for _, r := range ap.Radios {
		if r != nil {
			radios = append(radios, r)
		}
	}
	sort.SliceStable(radios, func(i, j int) bool {
		return radios[i].FrequencyBand < radios[j].FrequencyBand
	})
	for _, r := range radios {
		fmt.Fprintf(&b, "radio %s: channel=%d width=%d tx_power=%g\n",
			r.FrequencyBand, r.Channel, r.ChannelWidth, r.TxPower)
	}
	return b.String()
}

func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(l)
	}
	return b.String()
}
