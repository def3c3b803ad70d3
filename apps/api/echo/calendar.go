package echoapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/post"
	"github.com/mwalimu/ratiba/core/schedule"
)

var defaultVisibleLimit = 3

type calendarApi struct {
	conf       *core.Config
	svc        *schedule.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerCalendarAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := calendarApi{
		conf:       deps.Conf,
		svc:        deps.ScheduleSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	cg := g.Group("/calendar", jwt)
	cg.GET("", api.feed)
	cg.GET("/days", api.days)
	cg.GET("/export.ics", api.exportICS)
	cg.POST("/posts/:id/move", api.move)
}

// Handlers

func (api *calendarApi) feed(ctx echo.Context) error {
	viewer, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	var rng DateRange
	rng.Bind(ctx)
	filter := new(post.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.CalendarItem{})
	}
	filter.Clean()

	items, err := api.svc.Feed(viewer, rng.From, rng.To, *filter)
	if err != nil {
		return errors.Wrap(err, "computing calendar feed")
	}
	if items == nil {
		items = []schedule.CalendarItem{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *calendarApi) days(ctx echo.Context) error {
	viewer, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	var rng DateRange
	rng.Bind(ctx)
	filter := new(post.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, map[string]schedule.DayBucket{})
	}
	filter.Clean()

	limit := defaultVisibleLimit
	if val := ctx.QueryParam("limit"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			limit = n
		}
	}

	buckets, err := api.svc.DayBuckets(viewer, rng.From, rng.To, *filter, schedule.FixedLimit(limit))
	if err != nil {
		return errors.Wrap(err, "computing day buckets")
	}
	return ctx.JSON(http.StatusOK, buckets)
}

func (api *calendarApi) exportICS(ctx echo.Context) error {
	viewer, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	var rng DateRange
	rng.Bind(ctx)

	items, err := api.svc.Feed(viewer, rng.From, rng.To, post.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "computing calendar feed")
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="calendar.ics"`)
	res.WriteHeader(http.StatusOK)
	return schedule.WriteICS(res, fmt.Sprintf("-//%s//EN", api.conf.AppName), items)
}

func (api *calendarApi) move(ctx echo.Context) error {
	viewer, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}

	var data MoveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MoveRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	targetDay, err := time.Parse(dayLayout, data.Day)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "day", Error: "invalid date; expected YYYY-MM-DD"})
	}

	res, err := api.svc.Move(viewer, ctx.Param("id"), targetDay)
	if err != nil {
		if errors.Cause(err) == post.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "moving post")
	}

	// a denied move is a normal outcome; the decision carries the toast
	return ctx.JSON(http.StatusOK, res)
}

type MoveRequest struct {
	Day string `json:"day" validate:"required"`
}

func (mr *MoveRequest) Validate(validate *validator.Validate) error {
	mr.Day = core.CleanString(mr.Day)
	return validate.Struct(mr)
}
