package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/core/domain"
)

type permissionResponse struct {
	Capability domain.Capability `json:"capability"`
	Allowed    bool              `json:"allowed"`
}

// SessionHandler exposes the caller's session state.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get returns the current session snapshot.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.SessionSnapshot
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Snapshot())
}

// Permission reports whether the current identity holds a capability.
// Anonymous callers get allowed=false rather than an error.
//
// @Summary      Check a capability
// @Tags         session
// @Produce      json
// @Param        capability  path      string  true  "Capability name, e.g. view_reports"
// @Success      200         {object}  permissionResponse
// @Router       /v1/session/permissions/{capability} [get]
func (h *SessionHandler) Permission(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	capability := domain.Capability(c.Param("capability"))
	return c.JSON(http.StatusOK, permissionResponse{
		Capability: capability,
		Allowed:    store.HasPermission(capability),
	})
}
