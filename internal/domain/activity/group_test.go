package activity_test

import (
	"testing"
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func entryAt(id string, at time.Time) activity.Entry {
	return activity.Entry{
		ID:             id,
		SubjectType:    activity.SubjectCustomer,
		SubjectID:      "c1",
		ActivityType:   activity.TypeInternalNote,
		ActivityAction: activity.ActionCreate,
		SourceID:       "n-" + id,
		Content:        id,
		CreatedAt:      at,
	}
}

func TestGroupByMonth(t *testing.T) {
	may := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)

	entries := []activity.Entry{
		entryAt("a", mar),
		entryAt("b", may),
		entryAt("c", dec),
		entryAt("d", may.Add(time.Hour)),
		entryAt("e", mar.Add(time.Minute)),
	}
	original := append([]activity.Entry(nil), entries...)

	groups := activity.GroupByMonth(entries, nil)
	require.Len(t, groups, 3)
	require.Equal(t, activity.YearMonth{Year: 2024, Month: time.May}, groups[0].Date)
	require.Equal(t, activity.YearMonth{Year: 2024, Month: time.March}, groups[1].Date)
	require.Equal(t, activity.YearMonth{Year: 2023, Month: time.December}, groups[2].Date)

	ids := func(g activity.MonthGroup) []string {
		var out []string
		for _, it := range g.Entries {
			out = append(out, it.ID)
		}
		return out
	}
	require.Equal(t, []string{"d", "b"}, ids(groups[0]))
	require.Equal(t, []string{"e", "a"}, ids(groups[1]))
	require.Equal(t, []string{"c"}, ids(groups[2]))

	for i := 1; i < len(groups); i++ {
		require.True(t, groups[i].Date.Before(groups[i-1].Date))
	}
	require.Equal(t, original, entries, "input must not be reordered")
}

func TestGroupByMonth_Location(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-01-31 20:00 UTC is already February in Tokyo.
	at := time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)

	utc := activity.GroupByMonth([]activity.Entry{entryAt("a", at)}, time.UTC)
	require.Equal(t, time.January, utc[0].Date.Month)

	local := activity.GroupByMonth([]activity.Entry{entryAt("a", at)}, tokyo)
	require.Equal(t, time.February, local[0].Date.Month)
}

func TestGroupByMonth_TiesBreakByID(t *testing.T) {
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	groups := activity.GroupByMonth([]activity.Entry{entryAt("01a", at), entryAt("01c", at), entryAt("01b", at)}, nil)
	require.Len(t, groups, 1)
	require.Equal(t, "01c", groups[0].Entries[0].ID)
	require.Equal(t, "01b", groups[0].Entries[1].ID)
	require.Equal(t, "01a", groups[0].Entries[2].ID)
}

func TestGroupByMonth_Empty(t *testing.T) {
	require.Empty(t, activity.GroupByMonth(nil, nil))
}
