package ports

import (
	"context"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEvent) error
}

// AuditRecorder accepts audit events without blocking the request path.
type AuditRecorder interface {
	Record(e domain.AuditEvent)
}

// CatalogRepository serves marketing content and the opt-in sample data
// shown when the clinic API cannot be reached.
type CatalogRepository interface {
	Services(ctx context.Context) ([]domain.ClinicService, error)
	SampleDoctors(ctx context.Context) ([]domain.Doctor, error)
	SampleRecords(ctx context.Context) ([]domain.MedicalRecord, error)
	SampleRequisitions(ctx context.Context) ([]domain.Requisition, error)
}
