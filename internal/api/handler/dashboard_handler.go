package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

// DashboardBuilder assembles the role dashboard for a session.
type DashboardBuilder interface {
	Build(ctx context.Context, sess *domain.Session, view string, period *domain.Period) service.Dashboard
}

type DashboardHandler struct {
	dashboards DashboardBuilder
}

func NewDashboardHandler(dashboards DashboardBuilder) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Get handles GET /dashboard.
//
// @Summary      Role dashboard
// @Description  Dispatches on the first role of the signed-in user. view selects another option of the same role; month and year select the analytics period.
// @Tags         dashboard
// @Produce      json
// @Param        view   query     string  false  "Dashboard option"
// @Param        month  query     int     false  "Analytics month (1-12)"
// @Param        year   query     int     false  "Analytics year"
// @Success      200    {object}  dashboardResponse
// @Failure      400    {object}  errorResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	period, ok := parsePeriod(c.QueryParam("month"), c.QueryParam("year"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analytics period")
	}
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	d := h.dashboards.Build(c.Request().Context(), sess, c.QueryParam("view"), period)
	return c.JSON(http.StatusOK, dashboardResponse{
		Dashboard:     d,
		Notifications: sess.DrainNotifications(),
	})
}
