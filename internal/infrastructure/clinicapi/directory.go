package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// ── Doctors ──────────────────────────────────────────────────────────────────

func (c *Client) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var out []domain.Doctor
	if err := c.api(ctx, http.MethodGet, "/doctors", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDoctor(ctx context.Context, id string) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := c.api(ctx, http.MethodGet, "/doctors/"+url.PathEscape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) GetDoctorByUser(ctx context.Context, userID string) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := c.api(ctx, http.MethodGet, "/doctors/user/"+url.PathEscape(userID), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDoctor(ctx context.Context, in domain.DoctorCreate) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := c.api(ctx, http.MethodPost, "/doctors", nil, in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id string, in domain.DoctorUpdate) (*domain.Doctor, error) {
	var d domain.Doctor
	if err := c.api(ctx, http.MethodPut, "/doctors/"+url.PathEscape(id), nil, in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	return c.api(ctx, http.MethodDelete, "/doctors/"+url.PathEscape(id), nil, nil, nil)
}

// ── Patients ─────────────────────────────────────────────────────────────────

func (c *Client) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var out []domain.Patient
	if err := c.api(ctx, http.MethodGet, "/patients", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	var p domain.Patient
	if err := c.api(ctx, http.MethodGet, "/patients/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetPatientByPHN(ctx context.Context, phn string) (*domain.Patient, error) {
	var p domain.Patient
	if err := c.api(ctx, http.MethodGet, "/patients/phn/"+url.PathEscape(phn), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListPatientsByUser(ctx context.Context, userID string) ([]domain.Patient, error) {
	var out []domain.Patient
	if err := c.api(ctx, http.MethodGet, "/patients/user/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPatientsByDoctor(ctx context.Context, doctorID string) ([]domain.Patient, error) {
	var out []domain.Patient
	if err := c.api(ctx, http.MethodGet, "/patients/doctor/"+url.PathEscape(doctorID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePatient(ctx context.Context, in domain.PatientCreate) (*domain.Patient, error) {
	var p domain.Patient
	if err := c.api(ctx, http.MethodPost, "/patients", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id string, in domain.PatientUpdate) (*domain.Patient, error) {
	var p domain.Patient
	if err := c.api(ctx, http.MethodPut, "/patients/"+url.PathEscape(id), nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePatient(ctx context.Context, id string) error {
	return c.api(ctx, http.MethodDelete, "/patients/"+url.PathEscape(id), nil, nil, nil)
}

// ── Users ────────────────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context) ([]domain.Account, error) {
	var out []domain.Account
	if err := c.api(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	if err := c.api(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in domain.AccountUpdate) error {
	return c.api(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, in, nil)
}
