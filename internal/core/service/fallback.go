package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// Fallback serves sample catalog data when a list view's API call fails.
// It is off unless explicitly enabled, and every use is logged and counted.
// A nil *Fallback is disabled.
type Fallback struct {
	catalog ports.CatalogRepository
	enabled bool
	log     zerolog.Logger
}

func NewFallback(catalog ports.CatalogRepository, enabled bool, log zerolog.Logger) *Fallback {
	return &Fallback{catalog: catalog, enabled: enabled && catalog != nil, log: log}
}

// Enabled reports whether degraded mode may be used.
func (f *Fallback) Enabled() bool {
	return f != nil && f.enabled
}

// serveFallback returns sample data for view when degraded mode is on. The
// boolean is true only when sample data is actually being served.
func serveFallback[T any](ctx context.Context, f *Fallback, view string, cause error, load func(context.Context) ([]T, error)) ([]T, bool) {
	if !f.Enabled() {
		return nil, false
	}
	items, err := load(ctx)
	if err != nil {
		f.log.Error().Err(err).Str("view", view).Msg("sample catalog unavailable")
		return nil, false
	}
	metrics.FallbackServedTotal.WithLabelValues(view).Inc()
	f.log.Warn().
		Err(cause).
		Str("view", view).
		Int("items", len(items)).
		Msg("degraded mode: serving sample data")
	return items, true
}

func (f *Fallback) Doctors(ctx context.Context, cause error) ([]domain.Doctor, bool) {
	if !f.Enabled() {
		return nil, false
	}
	return serveFallback(ctx, f, "doctors", cause, f.catalog.SampleDoctors)
}

func (f *Fallback) Records(ctx context.Context, cause error) ([]domain.MedicalRecord, bool) {
	if !f.Enabled() {
		return nil, false
	}
	return serveFallback(ctx, f, "records", cause, f.catalog.SampleRecords)
}

// Requisitions serves sample requisitions; view distinguishes the patient
// list from the doctor's completed-results list in logs and metrics.
func (f *Fallback) Requisitions(ctx context.Context, view string, cause error) ([]domain.Requisition, bool) {
	if !f.Enabled() {
		return nil, false
	}
	items, ok := serveFallback(ctx, f, view, cause, f.catalog.SampleRequisitions)
	if !ok || view != viewRequisitionResults {
		return items, ok
	}
	completed := items[:0]
	for _, r := range items {
		if r.Status == domain.RequisitionCompleted {
			completed = append(completed, r)
		}
	}
	return completed, true
}
