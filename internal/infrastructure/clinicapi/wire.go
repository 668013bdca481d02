package clinicapi

import (
	"net/url"
	"strings"
	"time"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// localLayout is the clinic API's zone-less date-time format.
const localLayout = "2006-01-02T15:04:05"

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// wireTime keeps the raw timestamp until the clinic location is known.
type wireTime string

func (w wireTime) in(loc *time.Location) time.Time {
	s := strings.TrimSpace(string(w))
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc)
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(localLayout)
}

type wireSlot struct {
	ID        string   `json:"id"`
	DoctorID  string   `json:"doctorId"`
	PatientID string   `json:"patientId"`
	StartTime wireTime `json:"startTime"`
	EndTime   wireTime `json:"endTime"`
	Status    string   `json:"status"`
}

func (w wireSlot) toDomain(loc *time.Location) domain.Slot {
	return domain.Slot{
		ID:        w.ID,
		DoctorID:  w.DoctorID,
		PatientID: w.PatientID,
		StartTime: w.StartTime.in(loc),
		EndTime:   w.EndTime.in(loc),
		Status:    slotStatus(w.Status),
	}
}

// slotStatus folds the backend's appointment-mirroring states into BOOKED.
func slotStatus(raw string) domain.SlotStatus {
	switch s := strings.ToUpper(strings.TrimSpace(raw)); s {
	case "", string(domain.SlotAvailable):
		return domain.SlotAvailable
	default:
		return domain.SlotBooked
	}
}

type wireAppointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	Slot        *wireSlot `json:"slot"`
	StartTime   wireTime  `json:"startTime"`
	EndTime     wireTime  `json:"endTime"`
	VisitReason string    `json:"visitReason"`
	Status      string    `json:"status"`
	CreatedAt   wireTime  `json:"createdAt"`
	UpdatedAt   wireTime  `json:"updatedAt"`
}

func (w wireAppointment) toDomain(loc *time.Location) domain.Appointment {
	a := domain.Appointment{
		ID:          w.ID,
		PatientID:   w.PatientID,
		DoctorID:    w.DoctorID,
		VisitReason: w.VisitReason,
		Status:      domain.AppointmentStatus(strings.ToUpper(w.Status)),
		CreatedAt:   w.CreatedAt.in(loc),
		UpdatedAt:   w.UpdatedAt.in(loc),
	}
	if w.Slot != nil {
		a.Slot = w.Slot.toDomain(loc)
	} else {
		a.Slot = domain.Slot{
			DoctorID:  w.DoctorID,
			PatientID: w.PatientID,
			StartTime: w.StartTime.in(loc),
			EndTime:   w.EndTime.in(loc),
			Status:    domain.SlotBooked,
		}
	}
	return a
}

// claims is the decoded JWT claim set returned by the session check.
type claims struct {
	Sub     string          `json:"sub"`
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Roles   []string        `json:"roles"`
	Profile *domain.Profile `json:"profile"`
}

func (c claims) toUser() *domain.User {
	email := c.Email
	if email == "" {
		email = c.Sub
	}
	roles := make([]domain.Role, 0, len(c.Roles))
	for _, raw := range c.Roles {
		if r, ok := domain.ParseRole(raw); ok {
			roles = append(roles, r)
			continue
		}
		// Kept so that an unknown first role is still the first role.
		roles = append(roles, domain.Role(strings.ToUpper(strings.TrimSpace(raw))))
	}
	u := &domain.User{Email: email, Name: c.Name, Roles: roles, Profile: c.Profile}
	if c.Profile != nil {
		u.ID = c.Profile.UserID
	}
	return u
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setTimeIf(q url.Values, key string, t time.Time, loc *time.Location) {
	if !t.IsZero() {
		q.Set(key, formatLocal(t, loc))
	}
}
