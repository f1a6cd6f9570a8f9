package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/api/middleware"
	"github.com/spabook/portal/internal/core/service"
)

// ctxSession extracts the store injected by the Session middleware. Its
// absence means the route was mounted without the middleware.
func ctxSession(c echo.Context) (*service.SessionStore, error) {
	store, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return store, nil
}
