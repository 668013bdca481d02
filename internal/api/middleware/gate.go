package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

// Gate guards protected routes. It must run after Session.
type Gate struct {
	revalidateAfter time.Duration
}

func NewGate(revalidateAfter time.Duration) *Gate {
	return &Gate{revalidateAfter: revalidateAfter}
}

// Protected admits visitors whose first role is in allowedRoles (all roles
// when empty). Visitors without a user are sent to the sign-in page and
// visitors with another role to the unauthorized page. While the session
// check is still unresolved nothing is rendered and nobody is redirected.
func (g *Gate) Protected(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth, ok := c.Get(AuthProviderKey).(ports.AuthProvider)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "session not initialised")
			}

			auth.Init(c.Request().Context(), g.revalidateAfter)
			decision := service.EvaluateGate(auth.State(), auth.User(), allowedRoles)
			metrics.GateDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case service.GateAuthorized:
				return next(c)
			case service.GatePending:
				return c.NoContent(http.StatusNoContent)
			default:
				return c.Redirect(http.StatusSeeOther, decision.RedirectTo())
			}
		}
	}
}
