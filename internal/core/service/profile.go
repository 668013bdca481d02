package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// PersonalInformation is the profile page: the account and, for patients
// and doctors, the linked clinic record.
type PersonalInformation struct {
	Account *domain.Account `json:"account"`
	Patient *domain.Patient `json:"patient,omitempty"`
	Doctor  *domain.Doctor  `json:"doctor,omitempty"`
}

// MedicalHistory is a patient's records and appointments.
type MedicalHistory struct {
	Records      []domain.MedicalRecord `json:"records"`
	Appointments []domain.Appointment   `json:"appointments"`
	Degraded     bool                   `json:"degraded,omitempty"`
}

type ProfileService struct {
	api          ports.ClinicAPI
	clinical     *ClinicalService
	appointments *AppointmentService
	log          zerolog.Logger
}

func NewProfileService(api ports.ClinicAPI, clinical *ClinicalService, appointments *AppointmentService, log zerolog.Logger) *ProfileService {
	return &ProfileService{api: api, clinical: clinical, appointments: appointments, log: log}
}

func (s *ProfileService) PersonalInformation(ctx context.Context, sess *domain.Session) (*PersonalInformation, error) {
	_, user := sess.Snapshot()
	if user == nil || user.ID == "" {
		return nil, domain.ErrNoProfile
	}
	role, _ := user.PrimaryRole()
	info := &PersonalInformation{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acc, err := s.api.GetUser(gctx, user.ID)
		if err != nil {
			return fmt.Errorf("account: %w", err)
		}
		info.Account = acc
		return nil
	})
	if id := user.ProfileID(); id != "" {
		g.Go(func() error {
			var err error
			switch role {
			case domain.RolePatient:
				info.Patient, err = s.api.GetPatient(gctx, id)
			case domain.RoleDoctor:
				info.Doctor, err = s.api.GetDoctor(gctx, id)
			}
			if err != nil {
				// The account alone still renders.
				s.log.Debug().Err(err).Str("role", role.String()).Msg("linked profile unavailable")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}

// MedicalHistory is only defined for patients.
func (s *ProfileService) MedicalHistory(ctx context.Context, sess *domain.Session) (*MedicalHistory, error) {
	_, user := sess.Snapshot()
	if role, _ := user.PrimaryRole(); role != domain.RolePatient {
		return nil, domain.ErrForbidden
	}

	h := &MedicalHistory{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		h.Records, h.Degraded, err = s.clinical.Records(gctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		h.Appointments, err = s.appointments.List(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("medical history: %w", err)
	}
	h.Records = nonNil(h.Records)
	h.Appointments = nonNil(h.Appointments)
	return h, nil
}
