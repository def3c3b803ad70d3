package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"
)

var (
	fromParam = "from"
	toParam   = "to"

	dayLayout = "2006-01-02"
)

// DateRange binds the `from`/`to` query params of calendar endpoints.
// Without params it defaults to a six-week grid anchored on the first day
// of the current month, matching the frontend's month view.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (dr *DateRange) Bind(ctx echo.Context) {
	if val := ctx.QueryParam(fromParam); val != "" {
		if t, err := time.Parse(dayLayout, val); err == nil {
			dr.From = t
		}
	}
	if val := ctx.QueryParam(toParam); val != "" {
		if t, err := time.Parse(dayLayout, val); err == nil {
			dr.To = t
		}
	}

	if dr.From.IsZero() {
		now := time.Now().UTC()
		dr.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if dr.To.IsZero() || dr.To.Before(dr.From) {
		dr.To = dr.From.AddDate(0, 0, 41) // 6 weeks
	}
}
