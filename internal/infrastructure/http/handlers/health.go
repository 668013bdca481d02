package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultProbeTimeout = 3 * time.Second

// HealthHandler serves the liveness probe at GET /health.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// MongoProbe pings the database holding the audit trail and the catalog.
func MongoProbe(db *mongo.Database) Probe {
	return func(ctx context.Context) error {
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}

// RedisProbe pings the session store.
func RedisProbe(rdb *redis.Client) Probe {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// ReadinessHandler serves the readiness probe at GET /health/ready.
// The portal is ready once every named dependency answers.
type ReadinessHandler struct {
	probes  map[string]Probe
	timeout time.Duration
}

func NewReadinessHandler(probes map[string]Probe) *ReadinessHandler {
	return &ReadinessHandler{probes: probes, timeout: defaultProbeTimeout}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
