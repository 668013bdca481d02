package ports

import (
	"context"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// AuthGateway is the auth service as seen by the auth provider. Every call is
// made with the visitor's upstream cookies.
type AuthGateway interface {
	// Me performs the session check. A rejection that can be cured by a
	// token refresh wraps domain.ErrRefreshRequired.
	Me(ctx context.Context) (*domain.User, error)
	Refresh(ctx context.Context) error
	Login(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg domain.Registration) error
	VerifyIdentity(ctx context.Context, check domain.IdentityCheck) error
}

type AppointmentAPI interface {
	ListAppointments(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	CreateAppointment(ctx context.Context, d domain.AppointmentDraft) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, u domain.AppointmentUpdate) error
	DeleteAppointment(ctx context.Context, id string) error
}

type SlotAPI interface {
	ListSlots(ctx context.Context, f domain.SlotFilter) ([]domain.Slot, error)
	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
}

type DoctorAPI interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*domain.Doctor, error)
	GetDoctorByUser(ctx context.Context, userID string) (*domain.Doctor, error)
	CreateDoctor(ctx context.Context, d domain.DoctorCreate) (*domain.Doctor, error)
	UpdateDoctor(ctx context.Context, id string, u domain.DoctorUpdate) (*domain.Doctor, error)
	DeleteDoctor(ctx context.Context, id string) error
}

type PatientAPI interface {
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	GetPatient(ctx context.Context, id string) (*domain.Patient, error)
	GetPatientByPHN(ctx context.Context, phn string) (*domain.Patient, error)
	ListPatientsByUser(ctx context.Context, userID string) ([]domain.Patient, error)
	ListPatientsByDoctor(ctx context.Context, doctorID string) ([]domain.Patient, error)
	CreatePatient(ctx context.Context, p domain.PatientCreate) (*domain.Patient, error)
	UpdatePatient(ctx context.Context, id string, u domain.PatientUpdate) (*domain.Patient, error)
	DeletePatient(ctx context.Context, id string) error
}

type RecordAPI interface {
	ListRecords(ctx context.Context, f domain.MedicalRecordFilter) ([]domain.MedicalRecord, error)
	GetRecord(ctx context.Context, id string) (*domain.MedicalRecord, error)
	CreateRecord(ctx context.Context, r domain.MedicalRecordCreate) (*domain.MedicalRecord, error)
	UpdateRecord(ctx context.Context, id string, u domain.MedicalRecordUpdate) error
	DeleteRecord(ctx context.Context, id string) error
}

type RequisitionAPI interface {
	ListRequisitions(ctx context.Context, f domain.RequisitionFilter) ([]domain.Requisition, error)
	GetRequisition(ctx context.Context, id string) (*domain.Requisition, error)
	CreateRequisition(ctx context.Context, r domain.RequisitionCreate) (*domain.Requisition, error)
	UpdateRequisition(ctx context.Context, id string, u domain.RequisitionUpdate) (*domain.Requisition, error)
	DeleteRequisition(ctx context.Context, id string) error
}

type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.Account, error)
	GetUser(ctx context.Context, id string) (*domain.Account, error)
	UpdateUser(ctx context.Context, id string, u domain.AccountUpdate) error
}

type AnalyticsAPI interface {
	TopDoctors(ctx context.Context, p domain.Period) ([]domain.TopDoctor, error)
	SpecialtyStats(ctx context.Context, p domain.Period) ([]domain.SpecialtyStat, error)
	AgeDistribution(ctx context.Context) ([]domain.AgeBucket, error)
	DoctorCountBySpecialty(ctx context.Context) ([]domain.SpecialtyCount, error)
	RoleDistribution(ctx context.Context) ([]domain.RoleCount, error)
}

// ClinicAPI is the full data-access surface of the clinic REST API.
type ClinicAPI interface {
	AppointmentAPI
	SlotAPI
	DoctorAPI
	PatientAPI
	RecordAPI
	RequisitionAPI
	UserAPI
	AnalyticsAPI
}
