package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/harrison/filetier/internal/models"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether w is a terminal that should receive ANSI colors.
// NO_COLOR disables color even on a terminal.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// statusColor maps each tier to its console color.
var statusColor = map[models.Status]color.Attribute{
	models.StatusActive: color.FgGreen,
	models.StatusStale:  color.FgYellow,
	models.StatusDark:   color.FgRed,
}

// paint wraps s in the given color when colorOutput is set.
func paint(s string, attr color.Attribute, colorOutput bool) string {
	if !colorOutput {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// FormatRecord renders a record as "path | N.NN MB | timestamp | Status".
func FormatRecord(r models.FileRecord, colorOutput bool) string {
	status := string(r.Status)
	if attr, ok := statusColor[r.Status]; ok {
		status = paint(status, attr, colorOutput)
	}
	return fmt.Sprintf("%s | %.2f MB | %s | %s", r.Path, r.SizeMB, r.FormattedLastModified(), status)
}

// PrintRecords writes one line per record in input order.
func PrintRecords(w io.Writer, records []models.FileRecord, colorOutput bool) {
	for _, r := range records {
		fmt.Fprintln(w, FormatRecord(r, colorOutput))
	}
}

// PrintSummary writes the totals line followed by one line per tier.
func PrintSummary(w io.Writer, s models.Summary, colorOutput bool) {
	fileLabel := "files"
	if s.Total == 1 {
		fileLabel = "file"
	}
	header := fmt.Sprintf("Scanned %d %s (%.2f MB)", s.Total, fileLabel, s.TotalSizeMB)
	fmt.Fprintln(w, paint(header, color.Bold, colorOutput))

	for _, status := range models.Statuses() {
		label := paint(fmt.Sprintf("%-6s", status), statusColor[status], colorOutput)
		fmt.Fprintf(w, "  %s %d (%.2f MB)\n", label, s.Count(status), s.Tiers[status].SizeMB)
	}
}

// PrintExported reports a completed export.
func PrintExported(w io.Writer, count int, path string) {
	fmt.Fprintf(w, "Exported %d records to %s\n", count, path)
}
