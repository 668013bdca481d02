package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// stubAuth is a ports.AuthProvider with canned answers.
type stubAuth struct {
	state domain.AuthState
	user  *domain.User

	loginErr, logoutErr, registerErr, verifyErr error

	logins  []domain.Credentials
	logouts int
	regs    []domain.Registration
	checks  []domain.IdentityCheck
}

func (a *stubAuth) State() domain.AuthState                 { return a.state }
func (a *stubAuth) User() *domain.User                      { return a.user }
func (a *stubAuth) Init(context.Context, time.Duration)     {}
func (a *stubAuth) GetSession(context.Context) *domain.User { return a.user }

func (a *stubAuth) Login(_ context.Context, creds domain.Credentials) error {
	a.logins = append(a.logins, creds)
	return a.loginErr
}

func (a *stubAuth) Logout(context.Context) error {
	a.logouts++
	return a.logoutErr
}

func (a *stubAuth) Register(_ context.Context, reg domain.Registration) error {
	a.regs = append(a.regs, reg)
	return a.registerErr
}

func (a *stubAuth) VerifyIdentity(_ context.Context, check domain.IdentityCheck) error {
	a.checks = append(a.checks, check)
	return a.verifyErr
}

func signedInAs(role domain.Role, profileID string) *stubAuth {
	u := &domain.User{ID: "u-1", Email: "jo@example.com", Roles: []domain.Role{role}}
	if profileID != "" {
		u.Profile = &domain.Profile{UserID: "u-1", RoleID: profileID}
	}
	return &stubAuth{state: domain.AuthAuthenticated, user: u}
}

func anonymous() *stubAuth {
	return &stubAuth{state: domain.AuthUnauthenticated}
}

// request builds an echo context carrying a session bound to auth.
func request(t *testing.T, method, target, body string, auth *stubAuth) (echo.Context, *httptest.ResponseRecorder, *domain.Session) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sess := domain.NewSession("sess-1", testNow)
	if auth != nil {
		if auth.user != nil {
			sess.Resolve(auth.user, testNow)
		}
		c.Set(middleware.SessionKey, sess)
		c.Set(middleware.AuthProviderKey, auth)
	}
	return c, rec, sess
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("error = %v (%T), want *echo.HTTPError", err, err)
	}
	return he.Code
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

// --- service stubs ---

type stubBooker struct {
	doctors   []domain.Doctor
	degraded  bool
	doctorErr error

	calendar *service.Calendar
	calErr   error
	calArgs  [2]string

	submitErr error
	submitted []service.BookingForm
}

func (b *stubBooker) Doctors(context.Context) ([]domain.Doctor, bool, error) {
	return b.doctors, b.degraded, b.doctorErr
}

func (b *stubBooker) Calendar(_ context.Context, doctorID, day string) (*service.Calendar, error) {
	b.calArgs = [2]string{doctorID, day}
	return b.calendar, b.calErr
}

func (b *stubBooker) Submit(_ context.Context, _ *domain.Session, form service.BookingForm) (*domain.Appointment, error) {
	if form.SlotID == "" {
		return nil, domain.ErrNoSlotSelected
	}
	b.submitted = append(b.submitted, form)
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	return &domain.Appointment{ID: "a-1", VisitReason: form.VisitReason}, nil
}

type stubDashboards struct {
	view   string
	period *domain.Period
}

func (d *stubDashboards) Build(_ context.Context, sess *domain.Session, view string, period *domain.Period) service.Dashboard {
	d.view, d.period = view, period
	_, user := sess.Snapshot()
	return service.Dispatch(user, view)
}

// stubAppointments mimics the service: a successful change patches the
// session's list and queues a notification.
type stubAppointments struct {
	list []domain.Appointment
	err  error
}

func (s *stubAppointments) List(_ context.Context, sess *domain.Session) ([]domain.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	sess.RememberAppointments(s.list)
	return s.list, nil
}

func (s *stubAppointments) set(sess *domain.Session, id string, status domain.AppointmentStatus) error {
	if s.err != nil {
		return s.err
	}
	sess.PatchAppointment(id, func(a *domain.Appointment) { a.Status = status })
	sess.Notify(domain.NotifySuccess, "ok")
	return nil
}

func (s *stubAppointments) Cancel(_ context.Context, sess *domain.Session, id string) error {
	return s.set(sess, id, domain.AppointmentCancelled)
}

func (s *stubAppointments) Approve(_ context.Context, sess *domain.Session, id string) error {
	return s.set(sess, id, domain.AppointmentApproved)
}

func (s *stubAppointments) Reject(_ context.Context, sess *domain.Session, id string) error {
	return s.set(sess, id, domain.AppointmentRejected)
}

func (s *stubAppointments) EditReason(_ context.Context, sess *domain.Session, id, reason string) error {
	if err := domain.ValidVisitReason(reason); err != nil {
		return err
	}
	if s.err != nil {
		return s.err
	}
	sess.PatchAppointment(id, func(a *domain.Appointment) { a.VisitReason = reason })
	return nil
}
