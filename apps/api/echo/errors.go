package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errRefreshExpired = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errUnknownChannel = echo.NewHTTPError(http.StatusNotFound, "unknown chat channel")
)

// kindStatus maps the core error kinds to HTTP status codes.
var kindStatus = []struct {
	kind error
	code int
}{
	{core.ErrNotFound, http.StatusNotFound},
	{core.ErrConflict, http.StatusConflict},
	{core.ErrInvalidCredentials, http.StatusUnauthorized},
	{core.ErrForbidden, http.StatusForbidden},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
	{context.Canceled, http.StatusRequestTimeout},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err)

		if code == http.StatusInternalServerError {
			var usr *user.User
			if u, uErr := getContextUser(ctx); uErr == nil {
				usr = &u
			}
			msg := http.StatusText(code)
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = echo.Map{"error": err.Error()}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func errorResponse(err error) (int, echo.Map) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		resp := echo.Map{"error": vErr.Error()}
		if len(vErr.Fields) > 0 {
			fldErrs := make(map[string]string, len(vErr.Fields))
			for _, fErr := range vErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			resp["fields"] = fldErrs
		}
		return http.StatusBadRequest, resp
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fldErrs := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fldErrs[fe.Field()] = fe.Error()
		}
		return http.StatusBadRequest, echo.Map{"error": "invalid data", "fields": fldErrs}
	}

	var hErr *echo.HTTPError
	if errors.As(err, &hErr) {
		if hErr == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, echo.Map{"error": hErr.Message}
		}
		if inner, ok := hErr.Internal.(*echo.HTTPError); ok {
			hErr = inner
		}
		return hErr.Code, echo.Map{"error": hErr.Message}
	}

	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.code, echo.Map{"error": rootMessage(err)}
		}
	}
	return http.StatusInternalServerError, echo.Map{"error": http.StatusText(http.StatusInternalServerError)}
}

// rootMessage drops the wrapping context of a domain error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil || isKind(next) {
			return err.Error()
		}
		err = next
	}
}

func isKind(err error) bool {
	for _, ks := range kindStatus {
		if err == ks.kind {
			return true
		}
	}
	return false
}
