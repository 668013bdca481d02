package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveReadiness(t *testing.T, probes map[string]Probe) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := NewReadinessHandler(probes).Readiness(c); err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestReadiness_AllDependenciesUp(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec, body := serveReadiness(t, map[string]Probe{"sessions": ok, "audit": ok})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Status != "ok" || len(body.Dependencies) != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestReadiness_OneDependencyDown(t *testing.T) {
	rec, body := serveReadiness(t, map[string]Probe{
		"sessions": func(context.Context) error { return errors.New("connection refused") },
		"audit":    func(context.Context) error { return nil },
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf("status field = %q", body.Status)
	}
	if got := body.Dependencies["sessions"]; got.Status != "unhealthy" || got.Error != "connection refused" {
		t.Fatalf("sessions = %+v", got)
	}
	if got := body.Dependencies["audit"]; got.Status != "ok" {
		t.Fatalf("audit = %+v", got)
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
