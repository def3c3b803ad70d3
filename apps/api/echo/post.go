package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/ratiba/core/post"
)

var errPostNotFoundInCtx = errors.New("post object not found in echo.Context")

type postApi struct {
	svc        *post.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerPostAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := postApi{
		svc:        deps.PostSvc,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	pg := g.Group("/posts", jwt)
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.DELETE("", api.destroyMultiple, registrarMiddleware())
	pg.GET("/types", api.queryTypes)

	// detail endpoints
	dg := pg.Group("/:id", ctxPostOwnerOrRegistrarMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *postApi) create(ctx echo.Context) error {
	act, err := getContextActor(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context actor")
	}
	// students consume the calendar; they do not author records
	if !(act.IsRegistrar() || act.IsTeacher()) {
		return errHttpForbidden
	}

	var data post.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	p, err := api.svc.Create(data, post.Author{ID: act.ID, Name: act.Name, Email: act.Email, Roles: act.Roles})
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *postApi) query(ctx echo.Context) error {
	filter := new(post.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []post.Post{})
	}
	filter.Clean()

	var posts []post.Post
	var err error
	if filter.IsEmpty() {
		posts, err = api.svc.QueryAll()
	} else {
		posts, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []post.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *postApi) queryTypes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, post.AllTypes)
}

func (api *postApi) retrieve(ctx echo.Context) error {
	p, ok := ctx.Get("object").(post.Post)
	if !ok {
		return errors.Wrap(errPostNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *postApi) update(ctx echo.Context) error {
	p, ok := ctx.Get("object").(post.Post)
	if !ok {
		return errors.Wrap(errPostNotFoundInCtx, "retrieving object from context")
	}

	var data post.UpdatePost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePost")
	}
	if err := data.Validate(api.validate, api.translator, p); err != nil {
		return err
	}

	p, err := api.svc.Update(p.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *postApi) destroy(ctx echo.Context) error {
	p, ok := ctx.Get("object").(post.Post)
	if !ok {
		return errors.Wrap(errPostNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(p.ID); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *postApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting posts")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ctxPostOwnerOrRegistrarMiddleware loads the record and lets through its
// author or a registrar; everyone else gets a 404 to avoid leaking drafts.
func ctxPostOwnerOrRegistrarMiddleware(svc *post.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			act, err := getContextActor(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context actor")
			}

			p, err := svc.GetByID(ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == post.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding post by ID")
			}

			if ctx.Request().Method == http.MethodGet && p.PublishState == post.StatePublished {
				ctx.Set("object", p)
				return next(ctx)
			}
			if p.AuthoredBy(act.ID) || act.IsRegistrar() {
				ctx.Set("object", p)
				return next(ctx)
			}
			return errHttpNotFound
		}
	}
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
