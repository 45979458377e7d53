package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/user"
)

type authApi struct {
	auth *auth
	svc  *user.Service
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, a *auth, svc *user.Service) {
	api := authApi{auth: a, svc: svc}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/login", api.login)
	ag.POST("/register", api.register)

	// authed endpoints
	ag.POST("/logout", api.logout, authed...)
	ag.GET("/me", api.me, authed...)
	ag.POST("/token-refresh", api.refreshToken, authed...)
}

type TokenResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// respond issues a token bound to the session sid.
func (api *authApi) respond(ctx echo.Context, code int, usr user.User, sid string, origIat ...int64) error {
	token, err := api.auth.generateToken(api.auth.userClaims(usr, sid, origIat...))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, TokenResponse{Token: token, User: usr})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sid := uuid.New().String()
	usr, err := api.svc.Login(ctx.Request().Context(), sid, data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return api.respond(ctx, http.StatusOK, usr, sid)
}

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	sid := uuid.New().String()
	usr, err := api.svc.Register(ctx.Request().Context(), sid, data)
	if err != nil {
		return errors.Wrap(err, "registering")
	}
	return api.respond(ctx, http.StatusCreated, usr, sid)
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Logout(ctx.Request().Context(), claims.SessionID()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.svc.CurrentUser(ctx.Request().Context(), claims.SessionID())
	if err != nil {
		return errors.Wrap(err, "getting current user")
	}
	if usr == nil {
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if api.auth.refreshExpired(claims) {
		return errRefreshExpired
	}
	usr, err := api.svc.RefreshSession(ctx.Request().Context(), claims.SessionID())
	if err != nil {
		return errors.Wrap(err, "refreshing session")
	}
	return api.respond(ctx, http.StatusOK, usr, claims.SessionID(), claims.OrigIssuedAt)
}
