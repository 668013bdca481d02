package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// Dashboard option values.
const (
	viewUserManagement     = "userManagement"
	viewAnalytics          = "analytics"
	viewPeople             = "people"
	viewAppointments       = "appointments"
	viewRecords            = "records"
	viewRequisitions       = "requisitions"
	viewRequisitionResults = "requisitionResults"

	VerifyPath = "/verify"
)

// NavOption is one entry of a role's dashboard navigation.
type NavOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var navigation = map[domain.Role][]NavOption{
	domain.RoleAdmin: {
		{Label: "Users", Value: viewUserManagement},
		{Label: "Analytics", Value: viewAnalytics},
		{Label: "People", Value: viewPeople},
	},
	domain.RolePatient: {
		{Label: "Appointments", Value: viewAppointments},
		{Label: "Records", Value: viewRecords},
		{Label: "Requisitions", Value: viewRequisitions},
	},
	domain.RoleDoctor: {
		{Label: "Appointments", Value: viewAppointments},
		{Label: "Records", Value: viewRecords},
		{Label: "Requisition Results", Value: viewRequisitionResults},
	},
}

// NavigationFor returns a copy of the role's options, nil for roles without
// a dashboard.
func NavigationFor(role domain.Role) []NavOption {
	opts, ok := navigation[role]
	if !ok {
		return nil
	}
	return append([]NavOption(nil), opts...)
}

// GuestPanel is shown to accounts that have not verified an identity yet.
type GuestPanel struct {
	Message   string `json:"message"`
	VerifyURL string `json:"verifyUrl"`
}

// Dashboard is the role dashboard with exactly one active panel.
type Dashboard struct {
	Role       domain.Role `json:"role"`
	Options    []NavOption `json:"options,omitempty"`
	Active     string      `json:"active,omitempty"`
	Guest      *GuestPanel `json:"guest,omitempty"`
	Panel      any         `json:"panel,omitempty"`
	Degraded   bool        `json:"degraded,omitempty"`
	PanelError string      `json:"panelError,omitempty"`
}

// Dispatch selects the role's options and the active one. The first option
// is the default; view switches to another option of the same role and is
// ignored otherwise. Roles without options get the guest panel.
func Dispatch(user *domain.User, view string) Dashboard {
	role, _ := user.PrimaryRole()
	opts := NavigationFor(role)
	if len(opts) == 0 {
		return Dashboard{
			Role: role,
			Guest: &GuestPanel{
				Message:   "Verify your identity to unlock your dashboard.",
				VerifyURL: VerifyPath,
			},
		}
	}
	d := Dashboard{Role: role, Options: opts, Active: opts[0].Value}
	for _, o := range opts {
		if o.Value == view {
			d.Active = view
			break
		}
	}
	return d
}

type AppointmentsPanel struct {
	Appointments []domain.Appointment `json:"appointments"`
}

type RecordsPanel struct {
	Records []domain.MedicalRecord `json:"records"`
}

type RequisitionsPanel struct {
	Requisitions []domain.Requisition `json:"requisitions"`
}

type UsersPanel struct {
	Users []domain.Account `json:"users"`
}

type PeoplePanel struct {
	Doctors     []domain.Doctor  `json:"doctors"`
	Patients    []domain.Patient `json:"patients"`
	Unavailable []string         `json:"unavailable,omitempty"`
}

// DashboardService loads the data of the active panel.
type DashboardService struct {
	api          ports.ClinicAPI
	appointments *AppointmentService
	clinical     *ClinicalService
	analytics    *AnalyticsService
	log          zerolog.Logger
}

func NewDashboardService(
	api ports.ClinicAPI,
	appointments *AppointmentService,
	clinical *ClinicalService,
	analytics *AnalyticsService,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		api:          api,
		appointments: appointments,
		clinical:     clinical,
		analytics:    analytics,
		log:          log,
	}
}

// Build dispatches on the session user's first role and loads the active
// panel. A failing panel is rendered empty with PanelError set; Build itself
// does not fail. period is only used by the analytics panel; nil means the
// current month.
func (s *DashboardService) Build(ctx context.Context, sess *domain.Session, view string, period *domain.Period) Dashboard {
	_, user := sess.Snapshot()
	d := Dispatch(user, view)
	if d.Guest != nil {
		return d
	}

	var err error
	switch d.Active {
	case viewAppointments:
		var list []domain.Appointment
		list, err = s.appointments.List(ctx, sess)
		d.Panel = AppointmentsPanel{Appointments: nonNil(list)}
	case viewRecords:
		var list []domain.MedicalRecord
		list, d.Degraded, err = s.clinical.Records(ctx, user)
		d.Panel = RecordsPanel{Records: nonNil(list)}
	case viewRequisitions:
		var list []domain.Requisition
		list, d.Degraded, err = s.clinical.PatientRequisitions(ctx, user)
		d.Panel = RequisitionsPanel{Requisitions: nonNil(list)}
	case viewRequisitionResults:
		var list []domain.Requisition
		list, d.Degraded, err = s.clinical.CompletedRequisitions(ctx, user)
		d.Panel = RequisitionsPanel{Requisitions: nonNil(list)}
	case viewUserManagement:
		var list []domain.Account
		list, err = s.api.ListUsers(ctx)
		d.Panel = UsersPanel{Users: nonNil(list)}
	case viewAnalytics:
		p := s.analytics.CurrentPeriod()
		if period != nil {
			p = *period
		}
		d.Panel = s.analytics.Report(ctx, p)
	case viewPeople:
		d.Panel = s.people(ctx)
	}

	if err != nil {
		d.PanelError = panelErrorMessage(err)
		if !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Str("view", d.Active).Str("role", d.Role.String()).Msg("dashboard panel unavailable")
		}
	}
	return d
}

// people loads doctors and patients in parallel; either side may fail alone.
func (s *DashboardService) people(ctx context.Context) PeoplePanel {
	var (
		mu    sync.Mutex
		panel = PeoplePanel{Doctors: []domain.Doctor{}, Patients: []domain.Patient{}}
		g     errgroup.Group
	)
	g.Go(func() error {
		list, err := s.api.ListDoctors(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			panel.Unavailable = append(panel.Unavailable, "doctors")
			return nil
		}
		panel.Doctors = nonNil(list)
		return nil
	})
	g.Go(func() error {
		list, err := s.api.ListPatients(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			panel.Unavailable = append(panel.Unavailable, "patients")
			return nil
		}
		panel.Patients = nonNil(list)
		return nil
	})
	_ = g.Wait()
	return panel
}

func panelErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoProfile):
		return "Your account is not linked to a clinic profile yet."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, domain.ErrForbidden):
		return "You do not have access to this information."
	default:
		return "This information is unavailable right now."
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
