package export

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/filetier/internal/filelock"
	"github.com/harrison/filetier/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// ScanInfo identifies the scan a SQLite export belongs to.
type ScanInfo struct {
	ID         uuid.UUID
	Root       string
	ActiveDays int
	StaleDays  int
	ScannedAt  time.Time
}

// SQLiteExporter writes records into a fresh SQLite database file with a
// scans table and a files table.
type SQLiteExporter struct {
	Scan ScanInfo
}

// ExportToFile builds the database next to path and renames it into place,
// replacing any previous export. It returns the number of records written.
func (se *SQLiteExporter) ExportToFile(ctx context.Context, records []models.FileRecord, path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("output path cannot be empty")
	}
	if err := validate(records); err != nil {
		return 0, err
	}

	scan := se.Scan
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now()
	}

	err := filelock.LockAndReplace(path, func(tempPath string) error {
		return writeDatabase(ctx, tempPath, scan, records)
	})
	if err != nil {
		return 0, fmt.Errorf("export to %s: %w", path, err)
	}

	return len(records), nil
}

func writeDatabase(ctx context.Context, dbPath string, scan ScanInfo, records []models.FileRecord) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (id, root, active_days, stale_days, scanned_at, file_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		scan.ID.String(),
		scan.Root,
		scan.ActiveDays,
		scan.StaleDays,
		scan.ScannedAt.Local().Format(models.TimestampLayout),
		len(records),
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (scan_id, path, size_mb, last_modified, status)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			scan.ID.String(),
			r.Path,
			r.SizeMB,
			r.FormattedLastModified(),
			string(r.Status),
		); err != nil {
			return fmt.Errorf("insert %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
