package schedule

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
)

// WriteICS renders items as an iCalendar feed. Deadline kinds and all-day
// events become date-only entries; timed events keep their span.
func WriteICS(w io.Writer, prodID string, items []CalendarItem) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().UTC()
	for _, it := range items {
		ev := cal.AddEvent(it.ID)
		ev.SetDtStampTime(now)
		ev.SetSummary(it.Title)
		if it.Location != "" {
			ev.SetLocation(it.Location)
		}
		if it.Body != "" {
			ev.SetDescription(it.Body)
		}

		if it.AllDay || it.EndAt == nil {
			ev.SetAllDayStartAt(it.StartAt)
			ev.SetAllDayEndAt(it.StartAt.AddDate(0, 0, 1))
			continue
		}
		ev.SetStartAt(it.StartAt)
		ev.SetEndAt(*it.EndAt)
	}

	if err := cal.SerializeTo(w); err != nil {
		return errors.Wrap(err, "serializing calendar")
	}
	return nil
}
