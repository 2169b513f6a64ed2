package report

import (
	"encoding/json"
	"io"

	"github.com/kilupskalvis/apdiff/internal/models"
)

// JSON writes the serializable form of res as indented JSON.
func JSON(w io.Writer, res *models.ComparisonResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.ToMap())
}
