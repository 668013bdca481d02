package domain

import "time"

// SlotStatus is the booking state of a doctor's time slot. The clinic API
// mirrors appointment states onto booked slots; the portal only distinguishes
// available from everything else.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
)

// Slot is a bookable interval on a doctor's calendar. Read-only for the portal.
type Slot struct {
	ID        string     `json:"id"`
	DoctorID  string     `json:"doctorId"`
	PatientID string     `json:"patientId,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Status    SlotStatus `json:"status"`
}

// Bookable reports whether the slot can still be selected.
func (s Slot) Bookable() bool {
	return s.Status == "" || s.Status == SlotAvailable
}

// SlotFilter narrows a slot listing. Zero values are omitted from the query.
type SlotFilter struct {
	DoctorID string
	From     time.Time
	To       time.Time
	Status   SlotStatus
}
