package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/harrison/filetier/internal/models"
)

// csvHeader is the fixed column order of CSV exports.
var csvHeader = []string{"path", "size_mb", "last_modified", "status"}

// CSVExporter writes one header row followed by one row per record.
type CSVExporter struct{}

// Export writes records as comma-separated values.
func (ce *CSVExporter) Export(w io.Writer, records []models.FileRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Path,
			formatSizeMB(r.SizeMB),
			r.FormattedLastModified(),
			string(r.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.Path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
