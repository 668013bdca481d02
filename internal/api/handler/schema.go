package handler

import (
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

// --- Shared envelopes ---

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// FormError carries the submitted form back to the client with the failure
// so it can be resubmitted by hand.
type FormError struct {
	Err  error
	Form any
}

func (e *FormError) Error() string { return e.Err.Error() }
func (e *FormError) Unwrap() error { return e.Err }

// --- Auth ---

type signInRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type signUpRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber     string `json:"phoneNumber"     validate:"required,numeric,min=10,max=15"`
	DateOfBirth     string `json:"dateOfBirth"     validate:"omitempty,datetime=2006-01-02"`
}

type verifyRequest struct {
	Name                 string `json:"name"                 validate:"required,max=100"`
	PersonalHealthNumber string `json:"personalHealthNumber" validate:"required_without=LicenseNumber,omitempty,numeric"`
	LicenseNumber        string `json:"licenseNumber"        validate:"required_without=PersonalHealthNumber"`
}

type sessionResponse struct {
	State         string                `json:"state"`
	User          *domain.User          `json:"user,omitempty"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

// --- Dashboard / appointments ---

type dashboardResponse struct {
	service.Dashboard
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

type appointmentsResponse struct {
	Appointments  []domain.Appointment  `json:"appointments"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

type visitReasonRequest struct {
	VisitReason string `json:"visitReason"`
}

// --- Booking ---

type bookingRequest struct {
	SlotID      string `json:"slotId"`
	VisitReason string `json:"visitReason" validate:"max=500"`
}

type doctorsResponse struct {
	Doctors  []domain.Doctor `json:"doctors"`
	Degraded bool            `json:"degraded,omitempty"`
}

// --- Directory ---

type doctorRequest struct {
	Name           string `json:"name"           validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	LicenseNumber  string `json:"licenseNumber"  validate:"required,max=50"`
}

type doctorUpdateRequest struct {
	Name           string `json:"name"           validate:"omitempty,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
	Email          string `json:"email"          validate:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"    validate:"omitempty,numeric,min=10,max=15"`
}

type patientRequest struct {
	PersonalHealthNumber string `json:"personalHealthNumber" validate:"required,numeric"`
	Address              string `json:"address"              validate:"required,max=200"`
	UserID               string `json:"userId"               validate:"required"`
	DoctorID             string `json:"doctorId"`
}

type patientUpdateRequest struct {
	Address string `json:"address" validate:"required,max=200"`
}

type prescriptionRequest struct {
	DrugName  string `json:"drugName"  validate:"required"`
	Dosage    string `json:"dosage"    validate:"required"`
	Frequency string `json:"frequency" validate:"required"`
	Duration  string `json:"duration"  validate:"required"`
	Notes     string `json:"notes"`
}

type recordRequest struct {
	PatientID          string  `json:"patientId"          validate:"required"`
	VisitReason        string  `json:"visitReason"        validate:"required,min=10,max=500"`
	PatientDescription string  `json:"patientDescription" validate:"required"`
	DoctorNotes        string  `json:"doctorNotes"`
	FinalDiagnosis     string  `json:"finalDiagnosis"`
	BillingAmount      float64 `json:"billingAmount"      validate:"gte=0"`
}

type recordUpdateRequest struct {
	DoctorNotes    string                `json:"doctorNotes"`
	FinalDiagnosis string                `json:"finalDiagnosis"`
	Prescriptions  []prescriptionRequest `json:"prescriptions" validate:"dive"`
	BillingAmount  float64               `json:"billingAmount" validate:"gte=0"`
}

type recordsResponse struct {
	Records  []domain.MedicalRecord `json:"records"`
	Degraded bool                   `json:"degraded,omitempty"`
}

type requisitionRequest struct {
	MedicalRecordID string `json:"medicalRecordId" validate:"required"`
	TestName        string `json:"testName"        validate:"required,max=100"`
}

type requisitionResultRequest struct {
	Description string `json:"description" validate:"required"`
	Conclusion  string `json:"conclusion"  validate:"required"`
}

type requisitionsResponse struct {
	Requisitions []domain.Requisition `json:"requisitions"`
	Degraded     bool                 `json:"degraded,omitempty"`
}

type accountUpdateRequest struct {
	Name        string   `json:"name"        validate:"omitempty,max=100"`
	PhoneNumber string   `json:"phoneNumber" validate:"omitempty,numeric,min=10,max=15"`
	DateOfBirth string   `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Roles       []string `json:"roles"       validate:"omitempty,dive,oneof=ADMIN DOCTOR PATIENT GUEST"`
}

// --- Public pages ---

type homeResponse struct {
	Links map[string]string `json:"links"`
}

type servicesResponse struct {
	Services []domain.ClinicService `json:"services"`
}

type contactResponse struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
}
