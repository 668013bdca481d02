package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

const dashboardPath = "/dashboard"

// AuthHandler exposes the visitor's auth provider over HTTP. It never calls
// the auth service itself.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// SignInPage handles GET /signin.
//
// @Summary      Sign-in page state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Success      303  "already signed in, redirect to /dashboard"
// @Router       /signin [get]
func (h *AuthHandler) SignInPage(c echo.Context) error {
	sess, auth, err := ctxSession(c)
	if err != nil {
		return err
	}
	auth.Init(c.Request().Context(), 0)
	if auth.State() == domain.AuthAuthenticated {
		return c.Redirect(http.StatusSeeOther, dashboardPath)
	}
	return c.JSON(http.StatusOK, sessionResponse{
		State:         auth.State().String(),
		Notifications: sess.DrainNotifications(),
	})
}

// SignIn handles POST /signin.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      303   "signed in, redirect to /dashboard"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, auth, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := auth.Login(c.Request().Context(), toCredentials(req)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, dashboardPath)
}

// SignUp handles POST /signup. Registration requires a prior identity
// verification in the same session.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      303   "registered, redirect to /signin"
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, auth, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := auth.Register(c.Request().Context(), toRegistration(req)); err != nil {
		return err
	}
	sess.Notify(domain.NotifySuccess, "Account created. Please sign in.")
	return c.Redirect(http.StatusSeeOther, "/signin")
}

// Verify handles POST /verify.
//
// @Summary      Verify identity before registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "Name and health number or licence number"
// @Success      303   "verified, redirect to /signup"
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, auth, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := auth.VerifyIdentity(c.Request().Context(), toIdentityCheck(req)); err != nil {
		return err
	}
	sess.Notify(domain.NotifyInfo, "Identity verified. You can now create your account.")
	return c.Redirect(http.StatusSeeOther, "/signup")
}

// SignOut handles POST /signout. The portal session is torn down only when
// the auth service confirms the logout.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      303  "signed out, redirect to /"
// @Failure      503  {object}  errorResponse
// @Router       /signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	_, auth, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := auth.Logout(c.Request().Context()); err != nil {
		return err
	}
	middleware.EndSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Notifications handles GET /notifications: the session state plus any
// pending notifications, which are consumed by this call. It also serves the
// sign-up and verify pages.
//
// @Summary      Session state and pending notifications
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /notifications [get]
func (h *AuthHandler) Notifications(c echo.Context) error {
	sess, auth, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		State:         auth.State().String(),
		User:          auth.User(),
		Notifications: sess.DrainNotifications(),
	})
}
