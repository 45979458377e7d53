package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/resource"
)

const defaultRecentLimit = 5

type resourceApi struct {
	svc *resource.Service
}

func registerResourceAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *resource.Service) {
	api := resourceApi{svc: svc}

	rg := g.Group("/resources", authed...)
	rg.GET("/recent", api.recent)
	rg.GET("/:category", api.query)
	rg.POST("/:category", api.create)
	rg.GET("/:category/:id", api.retrieve)
	rg.DELETE("/:category/:id", api.destroy)
	rg.POST("/:category/:id/:action", api.updateStats)

	g.GET("/dashboard/overview", api.overview, authed...)
}

func category(ctx echo.Context) (resource.Category, error) {
	return resource.ParseCategory(ctx.Param("category"))
}

func (api *resourceApi) query(ctx echo.Context) error {
	c, err := category(ctx)
	if err != nil {
		return err
	}
	filter := resource.QueryFilter{
		Branch:   ctx.QueryParam("branch"),
		Year:     ctx.QueryParam("year"),
		Semester: ctx.QueryParam("semester"),
		Subject:  ctx.QueryParam("subject"),
		Search:   ctx.QueryParam("search"),
	}
	rs, err := api.svc.Query(ctx.Request().Context(), c, filter)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, rs)
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	c, err := category(ctx)
	if err != nil {
		return err
	}
	r, err := api.svc.GetByID(ctx.Request().Context(), c, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding resource by ID")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) create(ctx echo.Context) error {
	c, err := category(ctx)
	if err != nil {
		return err
	}
	var data resource.NewResource
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if data.UploadedBy == "" {
		if usr, uErr := getContextUser(ctx); uErr == nil {
			data.UploadedBy = usr.Name
		}
	}

	r, err := api.svc.Create(ctx.Request().Context(), c, data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *resourceApi) updateStats(ctx echo.Context) error {
	c, err := category(ctx)
	if err != nil {
		return err
	}
	r, err := api.svc.UpdateStats(ctx.Request().Context(), c, ctx.Param("id"), resource.Action(ctx.Param("action")))
	if err != nil {
		return errors.Wrap(err, "updating resource stats")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	c, err := category(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), c, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *resourceApi) recent(ctx echo.Context) error {
	limit := defaultRecentLimit
	if v := ctx.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return core.NewValidationError(errors.New("invalid limit"), core.FieldError{Field: "limit", Error: "must be a positive integer"})
		}
		limit = n
	}
	var cats []resource.Category
	for _, v := range ctx.QueryParams()["category"] {
		cats = append(cats, resource.Category(v))
	}

	rs, err := api.svc.Recent(ctx.Request().Context(), limit, cats...)
	if err != nil {
		return errors.Wrap(err, "querying recent resources")
	}
	return ctx.JSON(http.StatusOK, rs)
}

func (api *resourceApi) overview(ctx echo.Context) error {
	ovs, err := api.svc.Overview(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ovs)
}
