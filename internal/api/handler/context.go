package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// ctxSession returns the visitor session and auth provider injected by the
// Session middleware. Their absence means the route was registered outside
// the session group, which is a wiring bug, not a visitor error.
func ctxSession(c echo.Context) (*domain.Session, ports.AuthProvider, error) {
	sess, _ := c.Get(middleware.SessionKey).(*domain.Session)
	auth, _ := c.Get(middleware.AuthProviderKey).(ports.AuthProvider)
	if sess == nil || auth == nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "session not initialised")
	}
	return sess, auth, nil
}

// ctxUser returns the signed-in user. Routes behind the gate always have one.
func ctxUser(c echo.Context) (*domain.Session, *domain.User, error) {
	sess, auth, err := ctxSession(c)
	if err != nil {
		return nil, nil, err
	}
	user := auth.User()
	if user == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return sess, user, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
