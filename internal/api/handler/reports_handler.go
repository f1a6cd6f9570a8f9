package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

const reportsPage = "reports"

type reportsSummaryResponse struct {
	GeneratedFor string            `json:"generatedFor"`
	Role         domain.Role       `json:"role"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Sections     []domain.Fragment `json:"sections"`
}

// ReportsHandler serves the report summary behind the manager guards.
type ReportsHandler struct {
	views *service.ViewSelector
	now   func() time.Time
}

func NewReportsHandler(views *service.ViewSelector) *ReportsHandler {
	return &ReportsHandler{views: views, now: time.Now}
}

// Summary lists the report sections available to the caller.
//
// @Summary      Reports summary
// @Tags         admin
// @Produce      json
// @Success      200  {object}  reportsSummaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/reports/summary [get]
func (h *ReportsHandler) Summary(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	snap := store.Snapshot()
	if snap.Identity == nil {
		return service.Deny(domain.RoleNone)
	}

	sections, err := h.views.Select(reportsPage, snap.Role())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportsSummaryResponse{
		GeneratedFor: snap.Identity.DisplayName(),
		Role:         snap.Role(),
		GeneratedAt:  h.now().UTC(),
		Sections:     sections,
	})
}
