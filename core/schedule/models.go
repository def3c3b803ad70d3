package schedule

import (
	"time"

	"github.com/mwalimu/ratiba/core/post"
)

// CalendarItem is the uniform shape every downstream consumer sees.
// It is derived from a Post at the normalization boundary; the Kind tag is
// fixed there and never changes afterwards.
type CalendarItem struct {
	// ID is unique per item instance. Recurring instances share RecordID
	// but get distinct IDs.
	ID       string    `json:"id"`
	RecordID string    `json:"record_id"`
	Kind     post.Type `json:"kind"`

	ClassIDs []string `json:"class_ids,omitempty"` // empty = school-wide

	StartAt time.Time  `json:"start_at"`         // due instant for deadline kinds
	EndAt   *time.Time `json:"end_at,omitempty"` // absent for deadline kinds
	AllDay  bool       `json:"all_day,omitempty"`

	Title      string   `json:"title"`
	AuthorName string   `json:"author_name"`
	Location   string   `json:"location,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Body       string   `json:"body,omitempty"`

	PublishState post.PublishState `json:"publish_state"`
	// Clickable is true when the viewer's role bypasses publish gating or
	// the item is published.
	Clickable bool `json:"clickable"`
}

func (it CalendarItem) IsGlobal() bool { return len(it.ClassIDs) == 0 }

// DayBucket is the computed schedule for a single day cell. Buckets are
// rebuilt from scratch on every recompute and never mutated in place.
type DayBucket struct {
	Date          time.Time      `json:"date"`
	AllItems      []CalendarItem `json:"all_items"`
	VisibleItems  []CalendarItem `json:"visible_items"`
	OverflowItems []CalendarItem `json:"overflow_items"`
	OverflowCount int            `json:"overflow_count"`
}

// DayKey formats an instant as its calendar-day key in the instant's own
// location.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// VisibleLimitFn returns the visible-count limit for a week row index,
// supporting layouts where later weeks get compressed.
type VisibleLimitFn func(weekIndex int) int

// FixedLimit returns a VisibleLimitFn that ignores the week row.
func FixedLimit(n int) VisibleLimitFn {
	return func(int) int { return n }
}
