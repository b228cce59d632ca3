package timeline

import (
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/performer"
)

// Actor is the authenticated caller of a write. UserID is empty for
// unauthenticated or automated callers.
type Actor struct {
	UserID string
}

// Date is a year/month bucket key with a 1-based month.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// EntryView is the public shape of an activity entry.
type EntryView struct {
	ID        string               `json:"id"`
	SourceID  string               `json:"sourceId"`
	Action    string               `json:"action"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
	By        performer.Descriptor `json:"by"`
}

// MonthView is one month of a subject's timeline.
type MonthView struct {
	Date Date        `json:"date"`
	List []EntryView `json:"list"`
}

func newEntryView(entry activity.Entry, by performer.Descriptor) EntryView {
	return EntryView{
		ID:        entry.ID,
		SourceID:  entry.SourceID,
		Action:    entry.Action(),
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
		By:        by,
	}
}

func newMonthViews(groups []activity.MonthGroup) []MonthView {
	views := make([]MonthView, 0, len(groups))
	for _, group := range groups {
		list := make([]EntryView, 0, len(group.Entries))
		for _, item := range group.Entries {
			list = append(list, newEntryView(item.Entry, item.By))
		}
		views = append(views, MonthView{
			Date: Date{Year: group.Date.Year, Month: int(group.Date.Month)},
			List: list,
		})
	}
	return views
}
