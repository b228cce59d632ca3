package activity

import (
	"slices"
	"strings"
	"time"

	"github.com/ganot/activitylog/internal/domain/performer"
)

// TimelineItem is an entry together with the performer credited for it.
type TimelineItem struct {
	Entry
	By performer.Descriptor `json:"by"`
}

// SortEntries orders entries most recent first. Entries with equal CreatedAt
// are ordered by ID descending, which for time-ordered IDs matches reverse
// insertion order.
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}

// GroupByMonth sorts a copy of entries and partitions it into calendar month
// buckets computed in loc. Buckets and the entries inside them are ordered
// most recent first; no bucket is empty or repeated.
func GroupByMonth(entries []Entry, loc *time.Location) []MonthGroup {
	if loc == nil {
		loc = time.UTC
	}
	sorted := slices.Clone(entries)
	SortEntries(sorted)

	var groups []MonthGroup
	for _, entry := range sorted {
		t := entry.CreatedAt.In(loc)
		key := YearMonth{Year: t.Year(), Month: t.Month()}
		if n := len(groups); n > 0 && groups[n-1].Date == key {
			groups[n-1].Entries = append(groups[n-1].Entries, TimelineItem{Entry: entry})
			continue
		}
		groups = append(groups, MonthGroup{
			Date:    key,
			Entries: []TimelineItem{{Entry: entry}},
		})
	}
	return groups
}
