package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

// LayoutHandler serves navigation, layout shells and role-gated fragments.
type LayoutHandler struct {
	layouts *service.LayoutService
	views   *service.ViewSelector
}

func NewLayoutHandler(layouts *service.LayoutService, views *service.ViewSelector) *LayoutHandler {
	return &LayoutHandler{layouts: layouts, views: views}
}

// Navigation lists the entries of a shell visible to the caller. Unlike
// Layout it does not enforce shell access, so the public navigation can
// advertise the admin dashboard link to staff.
//
// @Summary      Navigation entries
// @Tags         layout
// @Produce      json
// @Param        shell  path      string  true  "admin, customer or public"
// @Success      200    {array}   domain.NavEntry
// @Failure      404    {object}  errorResponse
// @Router       /v1/navigation/{shell} [get]
func (h *LayoutHandler) Navigation(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	shell, err := shellParam(c)
	if err != nil {
		return err
	}

	entries, err := h.layouts.Navigation(shell, store.Snapshot().Role())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Layout composes a shell for the caller, or denies entry with a redirect.
//
// @Summary      Compose a layout shell
// @Tags         layout
// @Produce      json
// @Param        shell  path      string  true  "admin, customer or public"
// @Success      200    {object}  service.Layout
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/layout/{shell} [get]
func (h *LayoutHandler) Layout(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	shell, err := shellParam(c)
	if err != nil {
		return err
	}

	layout, err := h.layouts.Compose(shell, store.Snapshot())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, layout)
}

// Views lists the fragments of a page the caller's role may see.
//
// @Summary      Role-gated page fragments
// @Tags         layout
// @Produce      json
// @Param        page  path      string  true  "dashboard, bookings, customers, reports, portal or header"
// @Success      200   {array}   domain.Fragment
// @Failure      404   {object}  errorResponse
// @Router       /v1/views/{page} [get]
func (h *LayoutHandler) Views(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	fragments, err := h.views.Select(c.Param("page"), store.Snapshot().Role())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fragments)
}

func shellParam(c echo.Context) (domain.Shell, error) {
	raw := c.Param("shell")
	shell, ok := domain.ParseShell(raw)
	if !ok {
		return "", fmt.Errorf("shell %q: %w", raw, domain.ErrShellNotFound)
	}
	return shell, nil
}
