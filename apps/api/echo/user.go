package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, authed []echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users", authed...)
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.DELETE("", api.destroyMultiple)
	ug.GET("/:id", api.retrieve)
	ug.PATCH("/:id/active", api.setActive)
	ug.DELETE("/:id", api.destroy)
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func (api *userApi) query(ctx echo.Context) error {
	params := ctx.QueryParams()
	filter := user.QueryFilter{
		Search:   params.Get("search"),
		Branches: params["branch"],
	}
	for _, r := range params["role"] {
		filter.Roles = append(filter.Roles, user.Role(r))
	}
	if v := params.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return core.NewValidationError(errors.New("invalid filter"), core.FieldError{Field: "active", Error: "must be a boolean"})
		}
		filter.IsActive = &active
	}

	users, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) setActive(ctx echo.Context) error {
	var data SetActiveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetActiveRequest")
	}
	if data.IsActive == nil {
		return core.NewValidationError(errors.New("invalid data"), core.FieldError{Field: "isActive", Error: "this field is required"})
	}
	// admins cannot lock themselves out
	if err := forbidSelf(ctx, ctx.Param("id")); err != nil && !*data.IsActive {
		return err
	}

	usr, err := api.svc.SetActive(ctx.Request().Context(), ctx.Param("id"), *data.IsActive)
	if err != nil {
		return errors.Wrap(err, "setting user active")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	if err := forbidSelf(ctx, ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) destroyMultiple(ctx echo.Context) error {
	ids := ctx.QueryParams()["id"]
	if len(ids) == 0 {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := forbidSelf(ctx, ids...); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// forbidSelf fails when the context user is one of ids.
func forbidSelf(ctx echo.Context, ids ...string) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == ctxUsr.ID {
			return errHttpForbidden
		}
	}
	return nil
}
