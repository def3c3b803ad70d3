package session

import (
	"net/url"
	"time"
)

// Query keys. This schema is the one durable external contract of the
// session layer: bookmarked deep links must keep working across releases.
const (
	keyDrawer    = "drawer"
	keyPostID    = "postId"
	keyClassID   = "classId"
	keyFocusDate = "d"
	keyDay       = "day"
	keySummary   = "summary"

	drawerActivity = "activity"

	dayLayout = "2006-01-02"
)

// Mode tells which surface the drawer was opened from.
type Mode string

const (
	ModeCalendar Mode = "calendar"
	ModeFeed     Mode = "feed"
)

// DrawerParams identifies the record an activity drawer shows.
type DrawerParams struct {
	PostID  string
	ClassID string // present only for class-scoped records
	Mode    Mode
}

// EncodeDrawer serializes an open drawer to its query representation.
// A closed state encodes to no drawer keys at all.
func EncodeDrawer(st DrawerState) url.Values {
	q := make(url.Values)
	if !st.IsOpen || st.PostID == "" {
		return q
	}
	q.Set(keyDrawer, drawerActivity)
	q.Set(keyPostID, st.PostID)
	if st.ClassID != "" {
		q.Set(keyClassID, st.ClassID)
	}
	return q
}

// DecodeDrawer parses the drawer whitelist keys. It is total: anything
// malformed or partial decodes to (zero, false), never an error.
func DecodeDrawer(q url.Values) (DrawerParams, bool) {
	if q.Get(keyDrawer) != drawerActivity {
		return DrawerParams{}, false
	}
	postID := q.Get(keyPostID)
	if postID == "" {
		return DrawerParams{}, false
	}
	return DrawerParams{
		PostID:  postID,
		ClassID: q.Get(keyClassID),
		Mode:    ModeCalendar,
	}, true
}

// EncodeDaySummary serializes a day-summary deep link (`summary=1` plus an
// ISO day).
func EncodeDaySummary(day time.Time) url.Values {
	q := make(url.Values)
	q.Set(keyDay, day.Format(dayLayout))
	q.Set(keySummary, "1")
	return q
}

// DecodeDaySummary parses the day-summary companion pair.
func DecodeDaySummary(q url.Values) (time.Time, bool) {
	if q.Get(keySummary) != "1" {
		return time.Time{}, false
	}
	day, err := time.Parse(dayLayout, q.Get(keyDay))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// EncodeFocusDate serializes the optional `d` date used to position the
// calendar view.
func EncodeFocusDate(day time.Time) url.Values {
	q := make(url.Values)
	q.Set(keyFocusDate, day.Format(dayLayout))
	return q
}

// DecodeFocusDate parses the optional `d` date.
func DecodeFocusDate(q url.Values) (time.Time, bool) {
	raw := q.Get(keyFocusDate)
	if raw == "" {
		return time.Time{}, false
	}
	day, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
