package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func (c *Client) ListAppointments(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, error) {
	q := url.Values{}
	setIf(q, "patientId", f.PatientID)
	setIf(q, "doctorId", f.DoctorID)
	setIf(q, "status", string(f.Status))
	setTimeIf(q, "from", f.From, c.loc)
	setTimeIf(q, "to", f.To, c.loc)

	var raw []wireAppointment
	if err := c.api(ctx, http.MethodGet, "/appointments", q, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Appointment, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain(c.loc))
	}
	return out, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	var raw wireAppointment
	if err := c.api(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	a := raw.toDomain(c.loc)
	return &a, nil
}

func (c *Client) CreateAppointment(ctx context.Context, d domain.AppointmentDraft) (*domain.Appointment, error) {
	var raw wireAppointment
	if err := c.api(ctx, http.MethodPost, "/appointments", nil, d, &raw); err != nil {
		return nil, err
	}
	a := raw.toDomain(c.loc)
	return &a, nil
}

// UpdateAppointment answers with a plain confirmation; there is no body to decode.
func (c *Client) UpdateAppointment(ctx context.Context, id string, u domain.AppointmentUpdate) error {
	return c.api(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id), nil, u, nil)
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.api(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListSlots(ctx context.Context, f domain.SlotFilter) ([]domain.Slot, error) {
	q := url.Values{}
	setIf(q, "doctorId", f.DoctorID)
	setIf(q, "status", string(f.Status))
	setTimeIf(q, "from", f.From, c.loc)
	setTimeIf(q, "to", f.To, c.loc)

	var raw []wireSlot
	if err := c.api(ctx, http.MethodGet, "/slots", q, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Slot, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain(c.loc))
	}
	return out, nil
}

func (c *Client) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	var raw wireSlot
	if err := c.api(ctx, http.MethodGet, "/slots/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	s := raw.toDomain(c.loc)
	return &s, nil
}
