package handler

import (
	"strconv"
	"strings"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// --- Request → domain ---

func toCredentials(req signInRequest) domain.Credentials {
	return domain.Credentials{
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		RememberMe: req.RememberMe,
	}
}

func toRegistration(req signUpRequest) domain.Registration {
	return domain.Registration{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	}
}

func toIdentityCheck(req verifyRequest) domain.IdentityCheck {
	return domain.IdentityCheck{
		Name:                 strings.TrimSpace(req.Name),
		PersonalHealthNumber: req.PersonalHealthNumber,
		LicenseNumber:        req.LicenseNumber,
	}
}

func toDoctorCreate(req doctorRequest) domain.DoctorCreate {
	return domain.DoctorCreate{
		Name:           req.Name,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
	}
}

func toDoctorUpdate(req doctorUpdateRequest) domain.DoctorUpdate {
	return domain.DoctorUpdate{
		Name:           req.Name,
		Specialization: req.Specialization,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
	}
}

func toPatientCreate(req patientRequest) domain.PatientCreate {
	return domain.PatientCreate{
		PersonalHealthNumber: req.PersonalHealthNumber,
		Address:              req.Address,
		UserID:               req.UserID,
		DoctorID:             req.DoctorID,
	}
}

// toRecordCreate files the record under the signed-in doctor.
func toRecordCreate(req recordRequest, doctorID string) domain.MedicalRecordCreate {
	return domain.MedicalRecordCreate{
		PatientID:          req.PatientID,
		DoctorID:           doctorID,
		VisitReason:        req.VisitReason,
		PatientDescription: req.PatientDescription,
		DoctorNotes:        req.DoctorNotes,
		FinalDiagnosis:     req.FinalDiagnosis,
		BillingAmount:      req.BillingAmount,
	}
}

func toRecordUpdate(req recordUpdateRequest) domain.MedicalRecordUpdate {
	u := domain.MedicalRecordUpdate{
		DoctorNotes:    req.DoctorNotes,
		FinalDiagnosis: req.FinalDiagnosis,
		BillingAmount:  req.BillingAmount,
	}
	for _, p := range req.Prescriptions {
		u.Prescriptions = append(u.Prescriptions, domain.Prescription{
			DrugName:  p.DrugName,
			Dosage:    p.Dosage,
			Frequency: p.Frequency,
			Duration:  p.Duration,
			Notes:     p.Notes,
		})
	}
	return u
}

func toAccountUpdate(req accountUpdateRequest) domain.AccountUpdate {
	u := domain.AccountUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: req.DateOfBirth,
	}
	for _, r := range req.Roles {
		if role, ok := domain.ParseRole(r); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return u
}

// --- Query → domain ---

// parsePeriod reads ?month=&year=. It returns nil when neither is set.
func parsePeriod(month, year string) (*domain.Period, bool) {
	if month == "" && year == "" {
		return nil, true
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1900 {
		return nil, false
	}
	return &domain.Period{Month: m, Year: y}, true
}
