// Package export serializes classified file records to disk.
//
// CSV and JSON carry exactly four fields per record (path, size_mb,
// last_modified, status). Markdown and HTML add a per-tier summary for humans,
// and SQLite stores the records alongside the scan that produced them.
//
// All file exports are written to a temp file and renamed into place while
// holding a lock next to the destination, so a failed export never leaves a
// half-written file behind.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/filetier/internal/filelock"
	"github.com/harrison/filetier/internal/models"
)

// Supported format names
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"

	// FormatSQLite is written by SQLiteExporter.ExportToFile, not through
	// the Exporter interface.
	FormatSQLite = "sqlite"
)

// Default output filenames, relative to the working directory
const (
	DefaultCSVFile  = "classified_files.csv"
	DefaultJSONFile = "classified_files.json"
)

var (
	// ErrUnsupportedFormat is returned for unknown export format names.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrUnclassified is returned when a record has no activity tier.
	ErrUnclassified = errors.New("record has not been classified")
)

// ReportHeader is the heading shared by the Markdown and HTML reports.
// CSV and JSON ignore it.
type ReportHeader struct {
	Title       string
	Root        string
	GeneratedAt time.Time
}

// Exporter writes a set of classified records in one format.
type Exporter interface {
	Export(w io.Writer, records []models.FileRecord) error
}

// ParseFormat normalizes a format name. "md" is accepted for markdown.
func ParseFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "md" {
		format = FormatMarkdown
	}

	switch format {
	case FormatCSV, FormatJSON, FormatMarkdown, FormatHTML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: csv, json, markdown, html)", ErrUnsupportedFormat, format)
	}
}

// NewExporter returns the exporter for a format name. header is applied to
// the report formats.
func NewExporter(format string, header ReportHeader) (Exporter, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		return &CSVExporter{}, nil
	case FormatJSON:
		return &JSONExporter{Indent: DefaultJSONIndent}, nil
	case FormatMarkdown:
		return newMarkdownExporter(header), nil
	default:
		return &HTMLExporter{Report: *newMarkdownExporter(header)}, nil
	}
}

// WriteFile exports records to path with exp, replacing any existing file.
// It returns the number of records written.
func WriteFile(path string, exp Exporter, records []models.FileRecord) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("output path cannot be empty")
	}
	if err := validate(records); err != nil {
		return 0, err
	}

	err := filelock.WithLock(path, func() error {
		return filelock.AtomicWriteFunc(path, func(w io.Writer) error {
			return exp.Export(w, records)
		})
	})
	if err != nil {
		return 0, fmt.Errorf("export to %s: %w", path, err)
	}

	return len(records), nil
}

// ExportToFile exports records to path in the named format.
func ExportToFile(records []models.FileRecord, path string, format string, header ReportHeader) (int, error) {
	exp, err := NewExporter(format, header)
	if err != nil {
		return 0, err
	}
	return WriteFile(path, exp, records)
}

// ExportCSV writes records to filename as CSV.
func ExportCSV(records []models.FileRecord, filename string) (int, error) {
	return WriteFile(filename, &CSVExporter{}, records)
}

// ExportJSON writes records to filename as an indented JSON array.
func ExportJSON(records []models.FileRecord, filename string) (int, error) {
	return WriteFile(filename, &JSONExporter{Indent: DefaultJSONIndent}, records)
}

func validate(records []models.FileRecord) error {
	for _, r := range records {
		if !r.IsClassified() {
			return fmt.Errorf("%w: %s", ErrUnclassified, r.Path)
		}
	}
	return nil
}

// formatSizeMB renders a size at full precision. Integral values keep a
// trailing ".0" so the column always reads as a float.
func formatSizeMB(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
