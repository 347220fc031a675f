package router

import (
	stderrors "errors"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/errors"
	"complaintdesk/internal/handler"
	"complaintdesk/internal/logger"
)

// Authenticate verifies the bearer token and stores the caller's auth.Identity
// under handler.IdentityContextKey. A missing token is 401; a token that does
// not verify is 403.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			identity, err := tokens.Verify(raw)
			if err != nil {
				return nil, err
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var parseErr *echojwt.TokenParsingError
			if stderrors.As(err, &parseErr) {
				return errors.NewHTTPError(http.StatusForbidden, "invalid or expired token", errors.CodeTokenInvalid)
			}
			return errors.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided", errors.CodeTokenMissing)
		},
	})
}

// RequireKind rejects callers whose identity kind is not listed. It must run after Authenticate.
func RequireKind(kinds ...auth.Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(handler.IdentityContextKey).(auth.Identity)
			if !ok {
				return errors.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided", errors.CodeTokenMissing)
			}
			for _, k := range kinds {
				if identity.Kind == k {
					return next(c)
				}
			}
			return errors.NewHTTPError(http.StatusForbidden, fmt.Sprintf("access denied, %s privileges required", kinds[0]), errors.CodeForbidden)
		}
	}
}

// ErrorHandler renders every error in the failure envelope. Details of 5xx
// errors are logged and never returned.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		cause := httpErr.Cause
		if cause == nil {
			cause = err
		}
		logger.Error().
			Err(cause).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(httpErr.StatusCode)
	} else {
		writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if writeErr != nil {
		logger.Warn().Err(writeErr).Msg("failed to write error response")
	}
}

func toHTTPError(err error) *errors.HTTPError {
	var appErr *errors.HTTPError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var echoErr *echo.HTTPError
	if stderrors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if m, ok := echoErr.Message.(string); ok && m != "" {
			message = m
		}
		if echoErr.Code >= http.StatusInternalServerError {
			message = "internal server error"
		}
		mapped := errors.NewHTTPError(echoErr.Code, message, errors.CodeForStatus(echoErr.Code))
		mapped.Cause = err
		return mapped
	}

	return errors.MapErrorToHTTP(err)
}

// RequestLogger logs one zerolog line per request.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = logger.Error()
			case v.Status >= http.StatusBadRequest:
				event = logger.Warn()
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
