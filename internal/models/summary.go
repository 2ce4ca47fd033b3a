package models

// TierStats aggregates the files that fall into one tier.
type TierStats struct {
	Count  int
	SizeMB float64
}

// Summary holds per-tier totals for a classified record set.
type Summary struct {
	Total        int
	TotalSizeMB  float64
	Tiers        map[Status]TierStats
	Unclassified int
}

// Summarize computes per-tier counts and sizes. Records without a status are
// counted in Unclassified and excluded from Tiers.
func Summarize(records []FileRecord) Summary {
	s := Summary{
		Tiers: make(map[Status]TierStats, 3),
	}
	for _, status := range Statuses() {
		s.Tiers[status] = TierStats{}
	}

	for _, r := range records {
		s.Total++
		s.TotalSizeMB += r.SizeMB
		if !r.Status.IsValid() {
			s.Unclassified++
			continue
		}
		ts := s.Tiers[r.Status]
		ts.Count++
		ts.SizeMB += r.SizeMB
		s.Tiers[r.Status] = ts
	}

	return s
}

// Count returns the number of records in the given tier.
func (s Summary) Count(status Status) int {
	return s.Tiers[status].Count
}
