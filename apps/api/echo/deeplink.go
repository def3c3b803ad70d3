package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwalimu/ratiba/core"
	"github.com/mwalimu/ratiba/core/session"
)

// registerDeepLinkAPI exposes the URL-state codec so shared links can be
// resolved server-side, plus the session engine's bootstrap config. No auth:
// links only carry identifiers.
func registerDeepLinkAPI(g *echo.Group, deps ServerDeps) {
	api := deepLinkApi{conf: deps.Conf}
	g.GET("/deeplink", resolveDeepLink)
	g.GET("/session/config", api.sessionConfig)
}

type deepLinkApi struct {
	conf *core.Config
}

type (
	DeepLinkDrawer struct {
		PostID  string `json:"post_id"`
		ClassID string `json:"class_id,omitempty"`
		Mode    string `json:"mode"`
	}

	DeepLinkResponse struct {
		Drawer     *DeepLinkDrawer `json:"drawer,omitempty"`
		DaySummary string          `json:"day_summary,omitempty"`
		FocusDate  string          `json:"focus_date,omitempty"`
	}
)

func resolveDeepLink(ctx echo.Context) error {
	q := ctx.QueryParams()
	var resp DeepLinkResponse

	if params, ok := session.DecodeDrawer(q); ok {
		resp.Drawer = &DeepLinkDrawer{
			PostID:  params.PostID,
			ClassID: params.ClassID,
			Mode:    string(params.Mode),
		}
	}
	if day, ok := session.DecodeDaySummary(q); ok {
		resp.DaySummary = day.Format(dayLayout)
	}
	if day, ok := session.DecodeFocusDate(q); ok {
		resp.FocusDate = day.Format(dayLayout)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// SessionConfig carries the knobs the frontend session engine needs before
// it can open drawers and modals.
type SessionConfig struct {
	ModalSettleDelayMs  int64 `json:"modal_settle_delay_ms"`
	EnableWeights       bool  `json:"enable_weights"`
	DefaultVisibleLimit int   `json:"default_visible_limit"`
}

func (api *deepLinkApi) sessionConfig(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SessionConfig{
		ModalSettleDelayMs:  api.conf.Session.ModalSettleDelay.Milliseconds(),
		EnableWeights:       api.conf.EnableWeights,
		DefaultVisibleLimit: defaultVisibleLimit,
	})
}
