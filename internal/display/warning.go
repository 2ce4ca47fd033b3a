package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/filetier/internal/fileutil"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	fmt.Fprint(out, w.Render(ColorEnabled(out)))
}

// Render formats the warning block.
func (w Warning) Render(colorOutput bool) string {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	return paint(b.String(), color.FgYellow, colorOutput)
}

// WarnSkipped builds a warning listing the entries a scan could not read.
// Returns false when nothing was skipped.
func WarnSkipped(skipped []fileutil.SkippedEntry) (Warning, bool) {
	if len(skipped) == 0 {
		return Warning{}, false
	}

	files := make([]string, 0, len(skipped))
	for _, s := range skipped {
		files = append(files, fmt.Sprintf("%s: %v", s.Path, s.Err))
	}

	noun := "entries"
	if len(skipped) == 1 {
		noun = "entry"
	}

	return Warning{
		Title:      fmt.Sprintf("%d %s skipped during scan", len(skipped), noun),
		Message:    "These paths were not classified and are missing from the exports.",
		Files:      files,
		Suggestion: "Check permissions and re-run the scan.",
	}, true
}
