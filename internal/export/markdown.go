package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/filetier/internal/models"
)

// MarkdownExporter writes a human-readable report with a per-tier summary
// table followed by a table of every file.
type MarkdownExporter struct {
	Title       string    // Report heading; defaults to "File Activity Report"
	Root        string    // Scanned root, shown in the header when set
	GeneratedAt time.Time // Shown in the header when non-zero
}

func newMarkdownExporter(h ReportHeader) *MarkdownExporter {
	return &MarkdownExporter{Title: h.Title, Root: h.Root, GeneratedAt: h.GeneratedAt}
}

// Export writes records as a Markdown report.
func (me *MarkdownExporter) Export(w io.Writer, records []models.FileRecord) error {
	var sb strings.Builder

	title := me.Title
	if title == "" {
		title = "File Activity Report"
	}

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if me.Root != "" {
		sb.WriteString(fmt.Sprintf("**Root**: %s\n\n", codeSpan(me.Root)))
	}
	if !me.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", me.GeneratedAt.Local().Format(models.TimestampLayout)))
	}

	// Summary section
	summary := models.Summarize(records)
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Status | Files | Size (MB) |\n")
	sb.WriteString("|--------|-------|-----------|\n")
	for _, status := range models.Statuses() {
		ts := summary.Tiers[status]
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", status, ts.Count, ts.SizeMB))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | %d | %.2f |\n", summary.Total, summary.TotalSizeMB))
	sb.WriteString("\n")

	// Files section
	sb.WriteString("## Files\n\n")
	if len(records) == 0 {
		sb.WriteString("No files found.\n")
	} else {
		sb.WriteString("| Path | Size (MB) | Last Modified | Status |\n")
		sb.WriteString("|------|-----------|---------------|--------|\n")
		for _, r := range records {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %s | %s |\n",
				codeSpan(r.Path),
				r.SizeMB,
				r.FormattedLastModified(),
				r.Status))
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// codeSpan renders s as an inline code span that is safe inside a table cell.
func codeSpan(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}
