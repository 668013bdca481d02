package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func (c *Client) ListRecords(ctx context.Context, f domain.MedicalRecordFilter) ([]domain.MedicalRecord, error) {
	q := url.Values{}
	setIf(q, "patientId", f.PatientID)
	setIf(q, "doctorId", f.DoctorID)
	setTimeIf(q, "from", f.From, c.loc)
	setTimeIf(q, "to", f.To, c.loc)

	var out []domain.MedicalRecord
	if err := c.api(ctx, http.MethodGet, "/records", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	var r domain.MedicalRecord
	if err := c.api(ctx, http.MethodGet, "/records/"+url.PathEscape(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CreateRecord(ctx context.Context, in domain.MedicalRecordCreate) (*domain.MedicalRecord, error) {
	var r domain.MedicalRecord
	if err := c.api(ctx, http.MethodPost, "/records", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateRecord(ctx context.Context, id string, in domain.MedicalRecordUpdate) error {
	return c.api(ctx, http.MethodPut, "/records/"+url.PathEscape(id), nil, in, nil)
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.api(ctx, http.MethodDelete, "/records/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListRequisitions(ctx context.Context, f domain.RequisitionFilter) ([]domain.Requisition, error) {
	q := url.Values{}
	setIf(q, "medicalRecordId", f.MedicalRecordID)
	setIf(q, "status", string(f.Status))

	var out []domain.Requisition
	if err := c.api(ctx, http.MethodGet, "/requisitions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRequisition(ctx context.Context, id string) (*domain.Requisition, error) {
	var r domain.Requisition
	if err := c.api(ctx, http.MethodGet, "/requisitions/"+url.PathEscape(id), nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CreateRequisition(ctx context.Context, in domain.RequisitionCreate) (*domain.Requisition, error) {
	var r domain.Requisition
	if err := c.api(ctx, http.MethodPost, "/requisitions", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRequisition moves the requisition status and, when present, files its result.
func (c *Client) UpdateRequisition(ctx context.Context, id string, in domain.RequisitionUpdate) (*domain.Requisition, error) {
	var r domain.Requisition
	if err := c.api(ctx, http.MethodPut, "/requisitions/"+url.PathEscape(id)+"/status", nil, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteRequisition(ctx context.Context, id string) error {
	return c.api(ctx, http.MethodDelete, "/requisitions/"+url.PathEscape(id), nil, nil, nil)
}
