package domain

import (
	"time"
	"unicode/utf8"
)

// AppointmentStatus is owned by the clinic API; the portal only reflects the
// last value the server accepted.
type AppointmentStatus string

const (
	AppointmentPendingApproval AppointmentStatus = "PENDING_APPROVAL"
	AppointmentApproved        AppointmentStatus = "APPROVED"
	AppointmentRejected        AppointmentStatus = "REJECTED"
	AppointmentCompleted       AppointmentStatus = "COMPLETED"
	AppointmentCancelled       AppointmentStatus = "CANCELLED"
	AppointmentNoShow          AppointmentStatus = "NO_SHOW"
)

// Visit reason bounds enforced before an edit is sent.
const (
	VisitReasonMin = 10
	VisitReasonMax = 500
)

type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	DoctorID    string            `json:"doctorId"`
	Slot        Slot              `json:"slot"`
	VisitReason string            `json:"visitReason"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt,omitempty"`
	UpdatedAt   time.Time         `json:"updatedAt,omitempty"`
}

// AppointmentDraft is the booking submission.
type AppointmentDraft struct {
	SlotID      string `json:"slotId"`
	VisitReason string `json:"visitReason"`
}

// AppointmentUpdate changes status and/or visit reason. Empty fields are not sent.
type AppointmentUpdate struct {
	Status      AppointmentStatus `json:"status,omitempty"`
	VisitReason string            `json:"visitReason,omitempty"`
}

type AppointmentFilter struct {
	PatientID string
	DoctorID  string
	From      time.Time
	To        time.Time
	Status    AppointmentStatus
}

// ValidVisitReason checks the length bounds in characters, not bytes.
func ValidVisitReason(reason string) error {
	n := utf8.RuneCountInString(reason)
	if n < VisitReasonMin || n > VisitReasonMax {
		return ErrVisitReasonLength
	}
	return nil
}
