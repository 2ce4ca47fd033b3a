package models

import "time"

// Status is the activity tier assigned to a scanned file.
type Status string

// Activity tier constants
const (
	StatusActive Status = "Active" // Modified within the active window
	StatusStale  Status = "Stale"  // Older than active, within the stale window
	StatusDark   Status = "Dark"   // Untouched beyond the stale window
)

// BytesPerMB is the divisor used to convert byte sizes to megabytes.
const BytesPerMB = 1024 * 1024

// TimestampLayout is the fixed format used when exporting last-modified times.
// Times are rendered in local time without an offset.
const TimestampLayout = "2006-01-02 15:04:05"

// Statuses lists every tier in classification order.
func Statuses() []Status {
	return []Status{StatusActive, StatusStale, StatusDark}
}

// IsValid reports whether s is one of the known tiers.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusStale, StatusDark:
		return true
	default:
		return false
	}
}

// FileRecord describes one regular file found during a scan.
// Status is empty until the record has been classified.
type FileRecord struct {
	Path         string    // Scan root joined with the entry's relative path
	SizeBytes    int64     // Raw size from filesystem metadata
	SizeMB       float64   // SizeBytes / BytesPerMB
	LastModified time.Time // Modification time from filesystem metadata
	Status       Status    // Activity tier, empty before classification
}

// NewFileRecord builds an unclassified record from raw metadata.
func NewFileRecord(path string, sizeBytes int64, modTime time.Time) FileRecord {
	return FileRecord{
		Path:         path,
		SizeBytes:    sizeBytes,
		SizeMB:       float64(sizeBytes) / BytesPerMB,
		LastModified: modTime,
	}
}

// IsClassified reports whether one of the three tiers has been attached to
// the record.
func (r FileRecord) IsClassified() bool {
	return r.Status.IsValid()
}

// FormattedLastModified renders LastModified with TimestampLayout in local time.
func (r FileRecord) FormattedLastModified() string {
	return r.LastModified.Local().Format(TimestampLayout)
}
