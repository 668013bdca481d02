package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/handler"
	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/http/handlers"
)

type memSessions struct{ m map[string]*domain.Session }

func (s *memSessions) Load(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.m[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *memSessions) Save(_ context.Context, sess *domain.Session) error {
	s.m[sess.ID] = sess
	return nil
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	delete(s.m, id)
	return nil
}

func (s *memSessions) Ended(context.Context, string) (bool, error) { return false, nil }

// fixedAuth resolves every session to the same user.
type fixedAuth struct {
	user *domain.User
	sess *domain.Session
}

func (a fixedAuth) State() domain.AuthState {
	if a.user == nil {
		return domain.AuthUnauthenticated
	}
	return domain.AuthAuthenticated
}

func (a fixedAuth) User() *domain.User                                         { return a.user }
func (a fixedAuth) Init(context.Context, time.Duration)                        { a.sess.Resolve(a.user, time.Now()) }
func (a fixedAuth) GetSession(context.Context) *domain.User                    { return a.user }
func (a fixedAuth) Login(context.Context, domain.Credentials) error            { return domain.ErrInvalidCredentials }
func (a fixedAuth) Logout(context.Context) error                               { return nil }
func (a fixedAuth) Register(context.Context, domain.Registration) error        { return nil }
func (a fixedAuth) VerifyIdentity(context.Context, domain.IdentityCheck) error { return nil }

func newTestRouter(user *domain.User) *echo.Echo {
	return newTestRouterWith(user, &memSessions{m: map[string]*domain.Session{}})
}

func newTestRouterWith(user *domain.User, sessions *memSessions) *echo.Echo {
	h := Handlers{
		Auth:         handler.NewAuthHandler(),
		Dashboard:    handler.NewDashboardHandler(nil),
		Booking:      handler.NewBookingHandler(nil),
		Appointments: handler.NewAppointmentHandler(nil),
		Directory:    handler.NewDirectoryHandler(nil, nil),
		Clinical:     handler.NewClinicalHandler(nil, nil),
		Profile:      handler.NewProfileHandler(nil),
		Public:       handler.NewPublicHandler(nil, nil, handler.Contact{}),
		Health:       handlers.NewHealthHandler(),
		Readiness:    handlers.NewReadinessHandler(nil),
	}
	opts := Options{
		Sessions: sessions,
		NewAuth:  func(sess *domain.Session) ports.AuthProvider { return fixedAuth{user: user, sess: sess} },
		Session: middleware.SessionConfig{
			Secret: []byte("0123456789abcdef0123456789abcdef"),
			TTL:    time.Hour,
		},
		SignInRate:  0.001,
		SignInBurst: 1,
	}
	return NewRouter(h, opts, zerolog.Nop())
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_GateRedirects(t *testing.T) {
	patient := &domain.User{Email: "jo@example.com", Roles: []domain.Role{domain.RolePatient}}
	admin := &domain.User{Email: "ops@example.com", Roles: []domain.Role{domain.RoleAdmin}}
	cases := []struct {
		name   string
		user   *domain.User
		target string
		want   string
	}{
		{"anonymous dashboard", nil, "/dashboard", "/signin"},
		{"anonymous booking calendar", nil, "/booking/d-1", "/signin"},
		{"patient on admin page", patient, "/manage/users", "/unauthorized"},
		{"admin on care-team page", admin, "/manage/requisitions/q-1", "/unauthorized"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(newTestRouter(tc.user), http.MethodGet, tc.target, "")
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.want {
				t.Fatalf("Location = %q, want %q", loc, tc.want)
			}
		})
	}
}

func TestRouter_SessionCookieIssued(t *testing.T) {
	sessions := &memSessions{m: map[string]*domain.Session{}}
	rec := serve(newTestRouterWith(nil, sessions), http.MethodGet, "/dashboard", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), middleware.SessionCookie+"=") {
		t.Fatalf("Set-Cookie = %q", rec.Header().Get("Set-Cookie"))
	}
	if len(sessions.m) != 1 {
		t.Fatalf("expected the checked session to be stored, got %d", len(sessions.m))
	}
}

func TestRouter_PublicPageKeepsNoSession(t *testing.T) {
	sessions := &memSessions{m: map[string]*domain.Session{}}
	e := newTestRouterWith(nil, sessions)
	for _, target := range []string{"/", "/contact-us", "/notifications"} {
		rec := serve(e, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		if ck := rec.Header().Get("Set-Cookie"); ck != "" {
			t.Fatalf("%s: anonymous visit must not set a cookie, got %q", target, ck)
		}
	}
	if len(sessions.m) != 0 {
		t.Fatalf("anonymous visits must not be stored, got %d sessions", len(sessions.m))
	}
}

func TestRouter_HealthHasNoSession(t *testing.T) {
	rec := serve(newTestRouter(nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("health must not start a session")
	}
}

func TestRouter_SignInRateLimited(t *testing.T) {
	e := newTestRouter(nil)
	body := `{"email":"jo@example.com","password":"wrong"}`

	if rec := serve(e, http.MethodPost, "/signin", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt status = %d, want 401", rec.Code)
	}
	if rec := serve(e, http.MethodPost, "/signin", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt status = %d, want 429", rec.Code)
	}
}
