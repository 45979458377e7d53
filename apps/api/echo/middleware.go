package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/authz"
	"github.com/trezcool/studyhub/core/user"
)

// sessionMiddleware rejects tokens whose session was closed and stores the session user in the context.
func sessionMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			usr, err := svc.Authenticate(ctx.Request().Context(), claims.SessionID())
			if err != nil {
				return errors.Wrap(err, "authenticating session")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

// rbacMiddleware checks the route against the role policy of the context user.
func rbacMiddleware(enforcer *authz.Enforcer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			ok, err := enforcer.Allowed(usr.Role, ctx.Request().URL.Path, ctx.Request().Method)
			if err != nil {
				return err
			}
			if !ok {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
