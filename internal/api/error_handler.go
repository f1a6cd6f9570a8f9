package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/api/metrics"
	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

// statusClientClosedRequest is the de-facto code for a caller that went away.
const statusClientClosedRequest = 499

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Tells denied callers where to go via the redirect field.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ae *service.AccessError
	if errors.As(err, &ae) {
		code, reason := http.StatusForbidden, "forbidden"
		if errors.Is(ae, domain.ErrUnauthenticated) {
			code, reason = http.StatusUnauthorized, "unauthenticated"
		}
		metrics.AccessDeniedTotal.WithLabelValues(reason).Inc()
		return code, errorResponse{Error: ae.Error(), Redirect: ae.Redirect}
	}

	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrRegistrationConflict):
		return http.StatusConflict, errorResponse{Error: "email already registered"}
	case errors.Is(err, domain.ErrOperationInFlight):
		return http.StatusConflict, errorResponse{Error: "another submission is in progress"}
	case errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, errorResponse{Error: "page not found"}
	case errors.Is(err, domain.ErrShellNotFound):
		return http.StatusNotFound, errorResponse{Error: "shell not found"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: err.Error(), Redirect: "/login"}
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, errorResponse{Error: err.Error()}
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, errorResponse{Error: "request cancelled"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Error: "request timed out"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
