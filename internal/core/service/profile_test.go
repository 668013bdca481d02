package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func newProfile(api *stubClinicAPI) *ProfileService {
	return NewProfileService(
		api,
		NewClinicalService(api, nil, discardLogger),
		NewAppointmentService(api, nil, discardLogger),
		discardLogger,
	)
}

func TestProfileService_PersonalInformation(t *testing.T) {
	api := &stubClinicAPI{
		users:    []domain.Account{{ID: "user-1", Name: "Ana", Email: "visitor@example.com"}},
		patients: []domain.Patient{{ID: "pat-1", PersonalHealthNumber: "9876543210"}},
	}
	sess := signedIn(userWith(domain.RolePatient, "pat-1"))

	info, err := newProfile(api).PersonalInformation(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Account == nil || info.Account.Name != "Ana" {
		t.Errorf("expected account, got %+v", info.Account)
	}
	if info.Patient == nil || info.Patient.PersonalHealthNumber != "9876543210" {
		t.Errorf("expected linked patient, got %+v", info.Patient)
	}
	if info.Doctor != nil {
		t.Error("patient must not carry doctor details")
	}
}

func TestProfileService_PersonalInformation_LinkedRecordOptional(t *testing.T) {
	api := &stubClinicAPI{users: []domain.Account{{ID: "user-1"}}}
	sess := signedIn(userWith(domain.RoleDoctor, "missing"))

	info, err := newProfile(api).PersonalInformation(context.Background(), sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Doctor != nil {
		t.Error("expected no doctor details")
	}
}

func TestProfileService_PersonalInformation_AccountFailure(t *testing.T) {
	api := &stubClinicAPI{usersErr: apiErr(domain.KindUnavailable)}
	sess := signedIn(userWith(domain.RoleAdmin, ""))

	if _, err := newProfile(api).PersonalInformation(context.Background(), sess); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProfileService_MedicalHistory(t *testing.T) {
	api := &stubClinicAPI{
		records:      []domain.MedicalRecord{{ID: "r1", PatientID: "pat-1"}, {ID: "r2", PatientID: "pat-2"}},
		appointments: pendingAppointments(),
	}

	h, err := newProfile(api).MedicalHistory(context.Background(), signedIn(userWith(domain.RolePatient, "pat-1")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Records) != 1 || len(h.Appointments) != 2 {
		t.Errorf("unexpected history %+v", h)
	}

	if _, err := newProfile(api).MedicalHistory(context.Background(), signedIn(userWith(domain.RoleDoctor, "doc-1"))); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for doctors, got %v", err)
	}
}
