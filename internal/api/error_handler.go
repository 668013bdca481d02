package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/handler"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Form is
// set when a submitted form is echoed back for a manual resubmit.
type errorResponse struct {
	Error string `json:"error"`
	Form  any    `json:"form,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain sentinels and data-access error kinds to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		// The visitor went away; nobody reads the answer.
		if errors.Is(err, context.Canceled) {
			return
		}

		resp := errorResponse{}
		var fe *handler.FormError
		if errors.As(err, &fe) {
			resp.Form = fe.Form
		}

		var code int
		code, resp.Error = resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Portal errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrVisitReasonLength):
		return http.StatusUnprocessableEntity, domain.ErrVisitReasonLength.Error()
	case errors.Is(err, domain.ErrNoSlotSelected):
		return http.StatusBadRequest, "no slot selected"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, "this booking is already being submitted"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNoProfile):
		return http.StatusForbidden, "your account has no linked profile yet"
	}

	// Data-access failures carry a kind.
	if code, msg, ok := resolveKind(err); ok {
		log.Warn().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Int("status", code).
			Msg("request failed")
		return code, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func resolveKind(err error) (int, string, bool) {
	kind := domain.KindOf(err)
	var serverMsg string
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		serverMsg = apiErr.Message
	}

	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound, "not found", true
	case domain.KindUnauthorized:
		return http.StatusUnauthorized, "your session has expired, please sign in again", true
	case domain.KindForbidden:
		return http.StatusForbidden, "access forbidden", true
	case domain.KindInvalid:
		return http.StatusBadRequest, orDefault(serverMsg, "the clinic rejected this request"), true
	case domain.KindConflict:
		return http.StatusConflict, orDefault(serverMsg, "this change conflicts with the current state"), true
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable, "the clinic is unreachable right now, please try again", true
	case domain.KindUpstream, domain.KindMalformed:
		return http.StatusBadGateway, "the clinic service returned an unexpected response", true
	}
	return 0, "", false
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
