package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/filetier/internal/classify"
	"github.com/harrison/filetier/internal/config"
	"github.com/harrison/filetier/internal/display"
	"github.com/harrison/filetier/internal/export"
	"github.com/harrison/filetier/internal/fileutil"
	"github.com/harrison/filetier/internal/logger"
	"github.com/harrison/filetier/internal/models"
)

// ExportResult records one completed export.
type ExportResult struct {
	Format string
	Path   string
	Count  int
}

// RunResult is everything a pipeline run produced.
type RunResult struct {
	RunID   uuid.UUID
	Scan    *fileutil.ScanResult
	Records []models.FileRecord
	Summary models.Summary
	Exports []ExportResult
}

// Pipeline runs scan, classify, print and export once for a configuration.
type Pipeline struct {
	cfg     *config.Config
	now     time.Time
	runID   uuid.UUID
	out     io.Writer
	errOut  io.Writer
	color   bool
	log     logger.Logger
	fileLog *logger.FileLogger
	scanner *fileutil.Scanner
}

// NewPipeline builds a pipeline that prints results to out and diagnostics to
// errOut. A run log is opened under cfg.LogDir when it is set; call Close to
// release it.
func NewPipeline(cfg *config.Config, now time.Time, out, errOut io.Writer) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		now:    now,
		runID:  uuid.New(),
		out:    out,
		errOut: errOut,
		color:  display.ColorEnabled(out),
	}

	console := logger.NewConsoleLogger(errOut, cfg.LogLevel)
	if cfg.LogDir != "" {
		fl, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel, p.runID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		p.fileLog = fl
		p.log = logger.NewMultiLogger(console, fl)
		p.log.LogDebug("run log: " + fl.Path())
	} else {
		p.log = console
	}

	p.scanner = fileutil.NewOSScanner(p.log)
	return p, nil
}

// Close releases the run log, if any.
func (p *Pipeline) Close() error {
	if p.fileLog == nil {
		return nil
	}
	return p.fileLog.Close()
}

// Run executes the pipeline. A missing root is not an error: the exports are
// still written, empty.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	thresholds := p.cfg.Thresholds()
	p.log.LogDebug(fmt.Sprintf("run %s: scanning %s (active <= %d days, stale <= %d days)",
		p.runID, p.cfg.Root, thresholds.ActiveDays, thresholds.StaleDays))

	scan := p.scanner.Scan(p.cfg.Root)
	records := classify.ClassifyWith(scan.Records, p.now, thresholds)

	result := &RunResult{
		RunID:   p.runID,
		Scan:    scan,
		Records: records,
		Summary: models.Summarize(records),
	}

	if !p.cfg.Quiet {
		display.PrintRecords(p.out, records, p.color)
	}
	display.PrintSummary(p.out, result.Summary, p.color)

	// Skipped entries are reported once, as a block on the diagnostics stream.
	if w, ok := display.WarnSkipped(scan.Skipped); ok {
		w.Display(p.errOut)
	}

	if p.cfg.Outputs.JSON != "" {
		for _, path := range export.NonUTF8Paths(records) {
			p.log.LogWarn(fmt.Sprintf("path %q is not valid UTF-8; the JSON export replaces invalid bytes with U+FFFD", path))
		}
	}

	for _, job := range p.exportJobs() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		n, err := job.run(ctx, records)
		if err != nil {
			p.log.LogError(fmt.Sprintf("%s export failed: %v", job.format, err))
			return result, err
		}

		display.PrintExported(p.out, n, job.path)
		p.log.LogDebug(fmt.Sprintf("wrote %s export %s", job.format, job.path))
		result.Exports = append(result.Exports, ExportResult{Format: job.format, Path: job.path, Count: n})
	}

	return result, nil
}

type exportJob struct {
	format string
	path   string
	run    func(ctx context.Context, records []models.FileRecord) (int, error)
}

// exportJobs lists the enabled outputs in a fixed order: csv, json,
// markdown, html, sqlite.
func (p *Pipeline) exportJobs() []exportJob {
	outputs := p.cfg.Outputs
	header := export.ReportHeader{Root: p.cfg.Root, GeneratedAt: p.now}

	fileJob := func(format, path string, write func([]models.FileRecord, string) (int, error)) exportJob {
		return exportJob{
			format: format,
			path:   path,
			run: func(_ context.Context, records []models.FileRecord) (int, error) {
				return write(records, path)
			},
		}
	}
	reportJob := func(format, path string) exportJob {
		return fileJob(format, path, func(records []models.FileRecord, path string) (int, error) {
			return export.ExportToFile(records, path, format, header)
		})
	}

	var jobs []exportJob
	if outputs.CSV != "" {
		jobs = append(jobs, fileJob(export.FormatCSV, outputs.CSV, export.ExportCSV))
	}
	if outputs.JSON != "" {
		jobs = append(jobs, fileJob(export.FormatJSON, outputs.JSON, export.ExportJSON))
	}
	if outputs.Markdown != "" {
		jobs = append(jobs, reportJob(export.FormatMarkdown, outputs.Markdown))
	}
	if outputs.HTML != "" {
		jobs = append(jobs, reportJob(export.FormatHTML, outputs.HTML))
	}
	if outputs.SQLite != "" {
		path := outputs.SQLite
		sqliteExp := &export.SQLiteExporter{Scan: export.ScanInfo{
			ID:         p.runID,
			Root:       p.cfg.Root,
			ActiveDays: p.cfg.ActiveDays,
			StaleDays:  p.cfg.StaleDays,
			ScannedAt:  p.now,
		}}
		jobs = append(jobs, exportJob{
			format: export.FormatSQLite,
			path:   path,
			run: func(ctx context.Context, records []models.FileRecord) (int, error) {
				return sqliteExp.ExportToFile(ctx, records, path)
			},
		})
	}

	return jobs
}
