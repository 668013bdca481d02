package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func gateContext(p *stubProvider) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/booking/doc-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(AuthProviderKey, p)
	return c, rec
}

func TestGate_PatientOnly(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		wantCode int
		wantLoc  string
		wantNext bool
	}{
		{
			name:     "patient is admitted",
			provider: &stubProvider{state: domain.AuthAuthenticated, user: &domain.User{Roles: []domain.Role{domain.RolePatient}}},
			wantCode: http.StatusOK,
			wantNext: true,
		},
		{
			name:     "doctor goes to unauthorized",
			provider: &stubProvider{state: domain.AuthAuthenticated, user: &domain.User{Roles: []domain.Role{domain.RoleDoctor}}},
			wantCode: http.StatusSeeOther,
			wantLoc:  "/unauthorized",
		},
		{
			name:     "no user goes to sign in",
			provider: &stubProvider{state: domain.AuthUnauthenticated},
			wantCode: http.StatusSeeOther,
			wantLoc:  "/signin",
		},
		{
			name:     "unknown is resolved first",
			provider: &stubProvider{state: domain.AuthUnknown, next: domain.AuthUnauthenticated},
			wantCode: http.StatusSeeOther,
			wantLoc:  "/signin",
		},
		{
			name:     "unresolved never redirects",
			provider: &stubProvider{state: domain.AuthUnknown, next: domain.AuthUnknown},
			wantCode: http.StatusNoContent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := gateContext(tc.provider)
			called := false
			handler := NewGate(0).Protected(domain.RolePatient)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if called != tc.wantNext {
				t.Fatalf("next called=%v, want %v", called, tc.wantNext)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.wantLoc {
				t.Errorf("expected location %q, got %q", tc.wantLoc, loc)
			}
			if tc.provider.inits != 1 {
				t.Errorf("expected one Init call, got %d", tc.provider.inits)
			}
		})
	}
}

func TestGate_DefaultAdmitsAnyRole(t *testing.T) {
	c, rec := gateContext(&stubProvider{state: domain.AuthAuthenticated, user: &domain.User{Roles: []domain.Role{domain.RoleGuest}}})
	handler := NewGate(0).Protected()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_WithoutSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	handler := NewGate(0).Protected()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if err := handler(c); err == nil {
		t.Fatal("expected error when session middleware is missing")
	}
}
