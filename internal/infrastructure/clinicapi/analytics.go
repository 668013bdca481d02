package clinicapi

import (
	"context"
	"net/http"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func (c *Client) TopDoctors(ctx context.Context, p domain.Period) ([]domain.TopDoctor, error) {
	var out []domain.TopDoctor
	if err := c.api(ctx, http.MethodPost, "/analytics/top-doctors", nil, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SpecialtyStats(ctx context.Context, p domain.Period) ([]domain.SpecialtyStat, error) {
	var out []domain.SpecialtyStat
	if err := c.api(ctx, http.MethodPost, "/analytics/specialty-stats", nil, p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AgeDistribution(ctx context.Context) ([]domain.AgeBucket, error) {
	var out []domain.AgeBucket
	if err := c.api(ctx, http.MethodGet, "/analytics/age-distribution", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DoctorCountBySpecialty(ctx context.Context) ([]domain.SpecialtyCount, error) {
	var out []domain.SpecialtyCount
	if err := c.api(ctx, http.MethodGet, "/analytics/doctor-count-by-specialty", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RoleDistribution(ctx context.Context) ([]domain.RoleCount, error) {
	var out []domain.RoleCount
	if err := c.api(ctx, http.MethodGet, "/analytics/user-role-distribution", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
