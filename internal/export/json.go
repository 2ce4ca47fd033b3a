package export

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/harrison/filetier/internal/models"
)

// DefaultJSONIndent is the indentation used for JSON exports.
const DefaultJSONIndent = "    "

// jsonRecord fixes the key order and string form of exported records.
type jsonRecord struct {
	Path         string        `json:"path"`
	SizeMB       sizeMB        `json:"size_mb"`
	LastModified string        `json:"last_modified"`
	Status       models.Status `json:"status"`
}

// sizeMB marshals like formatSizeMB so 2 MB is written as 2.0.
type sizeMB float64

// MarshalJSON implements json.Marshaler.
func (s sizeMB) MarshalJSON() ([]byte, error) {
	return []byte(formatSizeMB(float64(s))), nil
}

// JSONExporter writes records as a single JSON array of objects.
type JSONExporter struct {
	Indent string // Per-level indentation; empty writes compact JSON
}

// Export writes records as a JSON array. An empty input writes [].
func (je *JSONExporter) Export(w io.Writer, records []models.FileRecord) error {
	rows := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, jsonRecord{
			Path:         r.Path,
			SizeMB:       sizeMB(r.SizeMB),
			LastModified: r.FormattedLastModified(),
			Status:       r.Status,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if je.Indent != "" {
		enc.SetIndent("", je.Indent)
	}

	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// NonUTF8Paths returns the record paths that are not valid UTF-8. JSON
// strings cannot carry such bytes, so the encoder writes U+FFFD in their
// place and the exported path no longer matches the file on disk.
func NonUTF8Paths(records []models.FileRecord) []string {
	var paths []string
	for _, r := range records {
		if !utf8.ValidString(r.Path) {
			paths = append(paths, r.Path)
		}
	}
	return paths
}
