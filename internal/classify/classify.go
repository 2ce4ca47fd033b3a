// Package classify assigns activity tiers to scanned files based on their age.
package classify

import (
	"fmt"
	"time"

	"github.com/harrison/filetier/internal/models"
)

// Default tier boundaries in whole days (inclusive upper bounds)
const (
	DefaultActiveDays = 30
	DefaultStaleDays  = 180
)

const day = 24 * time.Hour

// Thresholds holds the inclusive upper bounds, in days, of the Active and Stale tiers.
// Anything older than StaleDays is Dark.
type Thresholds struct {
	ActiveDays int
	StaleDays  int
}

// DefaultThresholds returns the 30 / 180 day boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ActiveDays: DefaultActiveDays,
		StaleDays:  DefaultStaleDays,
	}
}

// Validate checks that 0 <= ActiveDays < StaleDays.
func (t Thresholds) Validate() error {
	if t.ActiveDays < 0 {
		return fmt.Errorf("active_days must be >= 0, got %d", t.ActiveDays)
	}
	if t.StaleDays <= t.ActiveDays {
		return fmt.Errorf("stale_days must be greater than active_days (%d), got %d", t.ActiveDays, t.StaleDays)
	}
	return nil
}

// StatusFor maps an age in days to a tier. Negative ages fall into Active.
func (t Thresholds) StatusFor(ageDays int) models.Status {
	switch {
	case ageDays <= t.ActiveDays:
		return models.StatusActive
	case ageDays <= t.StaleDays:
		return models.StatusStale
	default:
		return models.StatusDark
	}
}

// AgeDays returns the number of whole days between modified and now, floored.
// A modification time after now yields a negative age.
func AgeDays(now, modified time.Time) int {
	age := now.Sub(modified)
	days := age / day
	if age < 0 && age%day != 0 {
		days--
	}
	return int(days)
}

// Classify tags every record using DefaultThresholds.
func Classify(records []models.FileRecord, now time.Time) []models.FileRecord {
	return ClassifyWith(records, now, DefaultThresholds())
}

// ClassifyWith returns a copy of records, in the same order, with Status set
// from each record's age relative to now. The input slice is not modified.
func ClassifyWith(records []models.FileRecord, now time.Time, t Thresholds) []models.FileRecord {
	out := make([]models.FileRecord, len(records))
	for i, r := range records {
		r.Status = t.StatusFor(AgeDays(now, r.LastModified))
		out[i] = r
	}
	return out
}
