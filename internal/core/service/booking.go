package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

const dayLayout = "2006-01-02"

// BookingAPI is the slice of the clinic API the booking flow needs.
type BookingAPI interface {
	ports.SlotAPI
	ports.DoctorAPI
	CreateAppointment(ctx context.Context, d domain.AppointmentDraft) (*domain.Appointment, error)
}

// SlotOption is a slot as offered in the picker. Booked slots stay listed but
// cannot be selected.
type SlotOption struct {
	domain.Slot
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Calendar is the availability view of one doctor.
type Calendar struct {
	Doctor      *domain.Doctor `json:"doctor,omitempty"`
	DoctorID    string         `json:"doctorId"`
	MinDate     string         `json:"minDate"`
	EnabledDays []string       `json:"enabledDays"`
	SelectedDay string         `json:"selectedDay,omitempty"`
	Slots       []SlotOption   `json:"slots"`
}

// BookingForm is the submitted slot selection.
type BookingForm struct {
	SlotID      string
	VisitReason string
}

// DayOf is the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// EnabledDays lists, in order, the local calendar days on or after minDay
// that hold at least one slot. Booked slots count: their day stays
// selectable and the slot itself is shown disabled.
func EnabledDays(slots []domain.Slot, loc *time.Location, minDay string) []string {
	seen := make(map[string]struct{}, len(slots))
	days := make([]string, 0, len(slots))
	for _, s := range slots {
		d := DayOf(s.StartTime, loc)
		if d < minDay {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// SlotsOn returns the slots starting on day (local calendar date), ordered by
// start time.
func SlotsOn(slots []domain.Slot, loc *time.Location, day string) []SlotOption {
	out := make([]SlotOption, 0)
	for _, s := range slots {
		if DayOf(s.StartTime, loc) != day {
			continue
		}
		start, end := s.StartTime.In(loc), s.EndTime.In(loc)
		out = append(out, SlotOption{
			Slot:     s,
			Label:    start.Format("15:04") + " - " + end.Format("15:04"),
			Disabled: !s.Bookable(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

type BookingService struct {
	api      BookingAPI
	guard    ports.SubmitGuard
	fallback *Fallback
	audit    *AuditService
	loc      *time.Location
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(
	api BookingAPI,
	guard ports.SubmitGuard,
	fallback *Fallback,
	audit *AuditService,
	loc *time.Location,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		api:      api,
		guard:    guard,
		fallback: fallback,
		audit:    audit,
		loc:      loc,
		log:      log,
		now:      time.Now,
	}
}

// Doctors lists bookable doctors. degraded is true when sample data is served.
func (s *BookingService) Doctors(ctx context.Context) (doctors []domain.Doctor, degraded bool, err error) {
	doctors, err = s.api.ListDoctors(ctx)
	if err == nil {
		return doctors, false, nil
	}
	if sample, ok := s.fallback.Doctors(ctx, err); ok {
		return sample, true, nil
	}
	return nil, false, err
}

// Calendar loads a doctor's slots and, when day is set, that day's slots.
func (s *BookingService) Calendar(ctx context.Context, doctorID, day string) (*Calendar, error) {
	today := s.now().In(s.loc)
	minDay := today.Format(dayLayout)
	if day != "" {
		if _, err := time.ParseInLocation(dayLayout, day, s.loc); err != nil {
			return nil, fmt.Errorf("calendar day %q: %w", day, domain.ErrInvalid)
		}
	}

	var (
		slots  []domain.Slot
		doctor *domain.Doctor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
		var err error
		slots, err = s.api.ListSlots(gctx, domain.SlotFilter{DoctorID: doctorID, From: from})
		return err
	})
	g.Go(func() error {
		d, err := s.api.GetDoctor(gctx, doctorID)
		if err != nil {
			// The header is cosmetic; the calendar still works without it.
			s.log.Debug().Err(err).Str("doctor_id", doctorID).Msg("doctor details unavailable")
			return nil
		}
		doctor = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	cal := &Calendar{
		Doctor:      doctor,
		DoctorID:    doctorID,
		MinDate:     minDay,
		EnabledDays: EnabledDays(slots, s.loc, minDay),
		Slots:       []SlotOption{},
	}
	if day != "" {
		cal.SelectedDay = day
		cal.Slots = SlotsOn(slots, s.loc, day)
	}
	return cal, nil
}

// Submit books the selected slot. With no slot selected it returns
// domain.ErrNoSlotSelected without any network call. The outcome is queued
// as a notification on the session.
func (s *BookingService) Submit(ctx context.Context, sess *domain.Session, form BookingForm) (*domain.Appointment, error) {
	if form.SlotID == "" {
		return nil, domain.ErrNoSlotSelected
	}

	// 1. Claim the submission; an unreachable guard does not block booking.
	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, sess.ID, form.SlotID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("slot_id", form.SlotID).Msg("submit guard unavailable, booking anyway")
		case !ok:
			metrics.BookingsTotal.WithLabelValues("duplicate").Inc()
			return nil, domain.ErrDuplicateSubmission
		default:
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), sess.ID, form.SlotID); err != nil {
					s.log.Warn().Err(err).Str("slot_id", form.SlotID).Msg("submit guard release failed")
				}
			}()
		}
	}

	// 2. Create the appointment. No retry: the visitor resubmits by hand.
	appt, err := s.api.CreateAppointment(ctx, domain.AppointmentDraft{SlotID: form.SlotID, VisitReason: form.VisitReason})
	s.audit.Record(sess, domain.AuditBook, "", form.SlotID, err)
	if err != nil {
		metrics.BookingsTotal.WithLabelValues("failed").Inc()
		if !errors.Is(err, context.Canceled) {
			sess.Notify(domain.NotifyError, bookingFailureMessage(err))
		}
		return nil, fmt.Errorf("book slot %s: %w", form.SlotID, err)
	}

	metrics.BookingsTotal.WithLabelValues("created").Inc()
	sess.Notify(domain.NotifySuccess, "Appointment booked. It is pending approval by your doctor.")
	s.log.Info().Str("slot_id", form.SlotID).Str("appointment_id", appt.ID).Msg("appointment booked")
	return appt, nil
}

func bookingFailureMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindConflict:
		return "That slot was just taken. Please pick another time."
	case domain.KindUnauthorized:
		return "Your session has expired. Please sign in again."
	case domain.KindUnavailable:
		return "The clinic is unreachable right now. Please try again."
	default:
		return "We could not book this appointment. Please try again."
	}
}
