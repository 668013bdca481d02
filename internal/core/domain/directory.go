package domain

import "time"

type Doctor struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Specialization string    `json:"specialization" bson:"specialization"`
	LicenseNumber  string    `json:"licenseNumber,omitempty" bson:"license_number,omitempty"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty" bson:"phone_number,omitempty"`
	UserID         string    `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty" bson:"created_at,omitempty"`
}

type DoctorCreate struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
}

type DoctorUpdate struct {
	Name           string `json:"name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}

type Patient struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	PersonalHealthNumber string    `json:"personalHealthNumber"`
	Address              string    `json:"address"`
	UserID               string    `json:"userId,omitempty"`
	DoctorID             string    `json:"doctorId,omitempty"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}

type PatientCreate struct {
	PersonalHealthNumber string `json:"personalHealthNumber"`
	Address              string `json:"address"`
	UserID               string `json:"userId"`
	DoctorID             string `json:"doctorId,omitempty"`
}

type PatientUpdate struct {
	Address string `json:"address"`
}

// Account is a user record as managed by administrators.
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Roles       []Role    `json:"roles"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

type AccountUpdate struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Roles       []Role `json:"roles,omitempty"`
}

// ClinicService is an entry on the public services page.
type ClinicService struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}
