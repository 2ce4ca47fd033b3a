package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/filetier/internal/models"
)

const htmlHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
`

const htmlFoot = `</body>
</html>
`

// HTMLExporter renders the Markdown report as a standalone HTML page.
type HTMLExporter struct {
	Report MarkdownExporter
}

// Export writes records as an HTML document.
func (he *HTMLExporter) Export(w io.Writer, records []models.FileRecord) error {
	var src bytes.Buffer
	if err := he.Report.Export(&src, records); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	title := he.Report.Title
	if title == "" {
		title = "File Activity Report"
	}

	if _, err := fmt.Fprintf(w, htmlHead, html.EscapeString(title)); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	if _, err := io.WriteString(w, htmlFoot); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
