package schedule

import (
	"sort"
	"time"
)

// ComputeDayBuckets partitions items into per-day buckets and splits each
// bucket into visible and overflow slices per the week row's limit.
//
// The computation is pure: identical inputs yield identical buckets, and no
// wall clock is consulted. Items are matched to a day by local-date equality
// of StartAt in the day's location; days are grouped into week rows of 7.
func ComputeDayBuckets(days []time.Time, items []CalendarItem, visibleLimit VisibleLimitFn) map[string]DayBucket {
	buckets := make(map[string]DayBucket, len(days))

	byDay := make(map[string][]CalendarItem)
	for _, day := range days {
		byDay[DayKey(day)] = nil
	}
	for _, it := range items {
		for _, day := range days {
			if DayKey(it.StartAt.In(day.Location())) == DayKey(day) {
				key := DayKey(day)
				byDay[key] = append(byDay[key], it)
				break
			}
		}
	}

	for i, day := range days {
		key := DayKey(day)
		dayItems := append([]CalendarItem(nil), byDay[key]...)
		sortDayItems(dayItems)

		limit := visibleLimit(i / 7)
		if limit < 0 {
			limit = 0
		}
		if limit > len(dayItems) {
			limit = len(dayItems)
		}

		buckets[key] = DayBucket{
			Date:          day,
			AllItems:      dayItems,
			VisibleItems:  dayItems[:limit],
			OverflowItems: dayItems[limit:],
			OverflowCount: len(dayItems) - limit,
		}
	}
	return buckets
}

// sortDayItems orders a day's items by a stable total order: all-day items
// first, then time-of-day ascending, then StartAt, then Title.
func sortDayItems(items []CalendarItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		at, bt := secondsIntoDay(a), secondsIntoDay(b)
		if at != bt {
			return at < bt
		}
		if !a.StartAt.Equal(b.StartAt) {
			return a.StartAt.Before(b.StartAt)
		}
		return a.Title < b.Title
	})
}

func secondsIntoDay(it CalendarItem) int {
	h, m, s := it.StartAt.Clock()
	return h*3600 + m*60 + s
}
