package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// Output formats accepted by Render
const (
	FormatText   = "text"
	FormatStat   = "stat"
	FormatFloors = "floors"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatStat, FormatFloors, FormatJSON, FormatCSV}

// ErrUnknownFormat is returned by Render for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Render writes res in the named format.
func Render(w io.Writer, format string, res *models.ComparisonResult, opts Options) error {
	switch format {
	case FormatText, "":
		return Text(w, res, opts)
	case FormatStat:
		return Stat(w, res)
	case FormatFloors:
		return Floors(w, res)
	case FormatJSON:
		return JSON(w, res)
	case FormatCSV:
		return CSV(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
