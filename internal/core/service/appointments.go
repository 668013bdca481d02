package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// AppointmentService lists a visitor's appointments and applies status and
// visit-reason changes. A successful change patches the session's last known
// list in place instead of re-fetching it.
type AppointmentService struct {
	api   ports.AppointmentAPI
	audit *AuditService
	log   zerolog.Logger
}

func NewAppointmentService(api ports.AppointmentAPI, audit *AuditService, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{api: api, audit: audit, log: log}
}

// List fetches the appointments visible to the session user: own bookings
// for a patient, own schedule for a doctor, everything for an admin.
func (s *AppointmentService) List(ctx context.Context, sess *domain.Session) ([]domain.Appointment, error) {
	_, user := sess.Snapshot()
	f, err := appointmentScope(user)
	if err != nil {
		return nil, err
	}
	list, err := s.api.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	sess.RememberAppointments(list)
	return list, nil
}

func appointmentScope(user *domain.User) (domain.AppointmentFilter, error) {
	role, _ := user.PrimaryRole()
	switch role {
	case domain.RoleAdmin:
		return domain.AppointmentFilter{}, nil
	case domain.RolePatient:
		if id := user.ProfileID(); id != "" {
			return domain.AppointmentFilter{PatientID: id}, nil
		}
	case domain.RoleDoctor:
		if id := user.ProfileID(); id != "" {
			return domain.AppointmentFilter{DoctorID: id}, nil
		}
	default:
		return domain.AppointmentFilter{}, domain.ErrForbidden
	}
	return domain.AppointmentFilter{}, domain.ErrNoProfile
}

// Cancel is the patient's action.
func (s *AppointmentService) Cancel(ctx context.Context, sess *domain.Session, id string) error {
	return s.changeStatus(ctx, sess, id, domain.AppointmentCancelled, domain.AuditCancel, "Appointment cancelled.")
}

// Approve and Reject are the doctor's actions on a pending request.
func (s *AppointmentService) Approve(ctx context.Context, sess *domain.Session, id string) error {
	return s.changeStatus(ctx, sess, id, domain.AppointmentApproved, domain.AuditApprove, "Appointment approved.")
}

func (s *AppointmentService) Reject(ctx context.Context, sess *domain.Session, id string) error {
	return s.changeStatus(ctx, sess, id, domain.AppointmentRejected, domain.AuditReject, "Appointment rejected.")
}

func (s *AppointmentService) changeStatus(
	ctx context.Context,
	sess *domain.Session,
	id string,
	status domain.AppointmentStatus,
	action domain.AuditAction,
	okMsg string,
) error {
	err := s.api.UpdateAppointment(ctx, id, domain.AppointmentUpdate{Status: status})
	s.audit.Record(sess, action, "", id, err)
	if err != nil {
		sess.Notify(domain.NotifyError, "The appointment could not be updated. Please try again.")
		return fmt.Errorf("set appointment %s to %s: %w", id, status, err)
	}

	sess.PatchAppointment(id, func(a *domain.Appointment) { a.Status = status })
	sess.Notify(domain.NotifySuccess, okMsg)
	s.log.Info().Str("appointment_id", id).Str("status", string(status)).Msg("appointment updated")
	return nil
}

// EditReason changes the visit reason. Lengths outside the allowed bounds
// are rejected before any network call.
func (s *AppointmentService) EditReason(ctx context.Context, sess *domain.Session, id, reason string) error {
	if err := domain.ValidVisitReason(reason); err != nil {
		return err
	}
	err := s.api.UpdateAppointment(ctx, id, domain.AppointmentUpdate{VisitReason: reason})
	s.audit.Record(sess, domain.AuditEditReason, "", id, err)
	if err != nil {
		sess.Notify(domain.NotifyError, "The visit reason could not be saved. Please try again.")
		return fmt.Errorf("edit appointment %s: %w", id, err)
	}
	sess.PatchAppointment(id, func(a *domain.Appointment) { a.VisitReason = reason })
	sess.Notify(domain.NotifySuccess, "Visit reason updated.")
	return nil
}
