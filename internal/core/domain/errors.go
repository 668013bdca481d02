package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed clinic API or auth service call.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindInvalid      ErrorKind = "invalid"
	KindConflict     ErrorKind = "conflict"
	KindUnavailable  ErrorKind = "unavailable"
	KindUpstream     ErrorKind = "upstream"
	KindMalformed    ErrorKind = "malformed"
)

// Sentinel errors. An *APIError unwraps to the sentinel of its kind, so
// callers can branch with errors.Is regardless of where the failure started.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrInvalid      = errors.New("invalid request")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("clinic service unavailable")
	ErrUpstream     = errors.New("clinic service error")
	ErrMalformed    = errors.New("malformed response")

	ErrNoSlotSelected      = errors.New("no slot selected")
	ErrDuplicateSubmission = errors.New("booking already in progress")
	ErrVisitReasonLength   = fmt.Errorf("visit reason must be between %d and %d characters", VisitReasonMin, VisitReasonMax)
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionEnded        = errors.New("session ended")
	ErrNoProfile           = errors.New("account has no linked profile")

	// ErrRefreshRequired marks a session check rejected because the access
	// token expired while a refresh token is still present.
	ErrRefreshRequired = errors.New("access token expired, refresh required")
)

var kindSentinels = map[ErrorKind]error{
	KindNotFound:     ErrNotFound,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindInvalid:      ErrInvalid,
	KindConflict:     ErrConflict,
	KindUnavailable:  ErrUnavailable,
	KindUpstream:     ErrUpstream,
	KindMalformed:    ErrMalformed,
}

// APIError is the typed failure returned by every data-access call.
type APIError struct {
	Kind    ErrorKind
	Op      string // "GET /appointments"
	Status  int    // 0 when no response was received
	Message string // server-provided message, if any
	Err     error
}

func (e *APIError) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return e.Op + ": " + msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindFromStatus maps a non-2xx HTTP status to an ErrorKind.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		return KindUnavailable
	case status >= 400 && status < 500:
		return KindInvalid
	default:
		return KindUpstream
	}
}

// KindOf reports the kind carried by err, or "" when err is not a classified failure.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}
