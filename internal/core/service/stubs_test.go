package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type stubGateway struct {
	meResults  []meResult // consumed in order; the last one repeats
	meCalls    int
	refreshErr error
	refreshes  int
	loginErr   error
	logoutErr  error
	regErr     error
	verifyErr  error
}

type meResult struct {
	user *domain.User
	err  error
}

func (g *stubGateway) Me(context.Context) (*domain.User, error) {
	i := g.meCalls
	if i >= len(g.meResults) {
		i = len(g.meResults) - 1
	}
	g.meCalls++
	if i < 0 {
		return nil, domain.ErrUnauthorized
	}
	return g.meResults[i].user, g.meResults[i].err
}

func (g *stubGateway) Refresh(context.Context) error {
	g.refreshes++
	return g.refreshErr
}

func (g *stubGateway) Login(context.Context, domain.Credentials) error { return g.loginErr }
func (g *stubGateway) Logout(context.Context) error                    { return g.logoutErr }

func (g *stubGateway) Register(context.Context, domain.Registration) error { return g.regErr }

func (g *stubGateway) VerifyIdentity(context.Context, domain.IdentityCheck) error {
	return g.verifyErr
}

// stubClinicAPI implements ports.ClinicAPI. Unset data returns empty lists.
type stubClinicAPI struct {
	mu sync.Mutex

	appointments    []domain.Appointment
	apptErr         error
	lastApptFilter  domain.AppointmentFilter
	updates         map[string]domain.AppointmentUpdate
	updateErr       error
	drafts          []domain.AppointmentDraft
	createErr       error
	slots           []domain.Slot
	slotsErr        error
	lastSlotFilter  domain.SlotFilter
	doctors         []domain.Doctor
	doctorsErr      error
	doctorErr       error
	patients        []domain.Patient
	patientsErr     error
	records         []domain.MedicalRecord
	recordsErr      error
	lastRecFilter   domain.MedicalRecordFilter
	requisitions    []domain.Requisition
	requisitionsErr error
	users           []domain.Account
	usersErr        error
	analyticsErr    map[string]error
}

func (a *stubClinicAPI) ListAppointments(_ context.Context, f domain.AppointmentFilter) ([]domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastApptFilter = f
	return a.appointments, a.apptErr
}

func (a *stubClinicAPI) GetAppointment(_ context.Context, id string) (*domain.Appointment, error) {
	for _, ap := range a.appointments {
		if ap.ID == id {
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) CreateAppointment(_ context.Context, d domain.AppointmentDraft) (*domain.Appointment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drafts = append(a.drafts, d)
	if a.createErr != nil {
		return nil, a.createErr
	}
	return &domain.Appointment{
		ID:          "appt-new",
		Slot:        domain.Slot{ID: d.SlotID},
		VisitReason: d.VisitReason,
		Status:      domain.AppointmentPendingApproval,
	}, nil
}

func (a *stubClinicAPI) UpdateAppointment(_ context.Context, id string, u domain.AppointmentUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.updateErr != nil {
		return a.updateErr
	}
	if a.updates == nil {
		a.updates = make(map[string]domain.AppointmentUpdate)
	}
	a.updates[id] = u
	return nil
}

func (a *stubClinicAPI) DeleteAppointment(context.Context, string) error { return nil }

func (a *stubClinicAPI) ListSlots(_ context.Context, f domain.SlotFilter) ([]domain.Slot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastSlotFilter = f
	return a.slots, a.slotsErr
}

func (a *stubClinicAPI) GetSlot(context.Context, string) (*domain.Slot, error) {
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) ListDoctors(context.Context) ([]domain.Doctor, error) {
	return a.doctors, a.doctorsErr
}

func (a *stubClinicAPI) GetDoctor(_ context.Context, id string) (*domain.Doctor, error) {
	if a.doctorErr != nil {
		return nil, a.doctorErr
	}
	for _, d := range a.doctors {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) GetDoctorByUser(context.Context, string) (*domain.Doctor, error) {
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) CreateDoctor(context.Context, domain.DoctorCreate) (*domain.Doctor, error) {
	return &domain.Doctor{}, nil
}

func (a *stubClinicAPI) UpdateDoctor(context.Context, string, domain.DoctorUpdate) (*domain.Doctor, error) {
	return &domain.Doctor{}, nil
}

func (a *stubClinicAPI) DeleteDoctor(context.Context, string) error { return nil }

func (a *stubClinicAPI) ListPatients(context.Context) ([]domain.Patient, error) {
	return a.patients, a.patientsErr
}

func (a *stubClinicAPI) GetPatient(_ context.Context, id string) (*domain.Patient, error) {
	for _, p := range a.patients {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) GetPatientByPHN(context.Context, string) (*domain.Patient, error) {
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) ListPatientsByUser(context.Context, string) ([]domain.Patient, error) {
	return nil, nil
}

func (a *stubClinicAPI) ListPatientsByDoctor(context.Context, string) ([]domain.Patient, error) {
	return nil, nil
}

func (a *stubClinicAPI) CreatePatient(context.Context, domain.PatientCreate) (*domain.Patient, error) {
	return &domain.Patient{}, nil
}

func (a *stubClinicAPI) UpdatePatient(context.Context, string, domain.PatientUpdate) (*domain.Patient, error) {
	return &domain.Patient{}, nil
}

func (a *stubClinicAPI) DeletePatient(context.Context, string) error { return nil }

// ListRecords applies the same scoping the clinic API does.
func (a *stubClinicAPI) ListRecords(_ context.Context, f domain.MedicalRecordFilter) ([]domain.MedicalRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastRecFilter = f
	if a.recordsErr != nil {
		return nil, a.recordsErr
	}
	var out []domain.MedicalRecord
	for _, r := range a.records {
		if f.PatientID != "" && r.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != "" && r.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *stubClinicAPI) GetRecord(context.Context, string) (*domain.MedicalRecord, error) {
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) CreateRecord(context.Context, domain.MedicalRecordCreate) (*domain.MedicalRecord, error) {
	return &domain.MedicalRecord{}, nil
}

func (a *stubClinicAPI) UpdateRecord(context.Context, string, domain.MedicalRecordUpdate) error {
	return nil
}

func (a *stubClinicAPI) DeleteRecord(context.Context, string) error { return nil }

func (a *stubClinicAPI) ListRequisitions(_ context.Context, f domain.RequisitionFilter) ([]domain.Requisition, error) {
	if a.requisitionsErr != nil {
		return nil, a.requisitionsErr
	}
	var out []domain.Requisition
	for _, r := range a.requisitions {
		if f.MedicalRecordID != "" && r.MedicalRecordID != f.MedicalRecordID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *stubClinicAPI) GetRequisition(context.Context, string) (*domain.Requisition, error) {
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) CreateRequisition(context.Context, domain.RequisitionCreate) (*domain.Requisition, error) {
	return &domain.Requisition{}, nil
}

func (a *stubClinicAPI) UpdateRequisition(context.Context, string, domain.RequisitionUpdate) (*domain.Requisition, error) {
	return &domain.Requisition{}, nil
}

func (a *stubClinicAPI) DeleteRequisition(context.Context, string) error { return nil }

func (a *stubClinicAPI) ListUsers(context.Context) ([]domain.Account, error) {
	return a.users, a.usersErr
}

func (a *stubClinicAPI) GetUser(_ context.Context, id string) (*domain.Account, error) {
	if a.usersErr != nil {
		return nil, a.usersErr
	}
	for _, u := range a.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *stubClinicAPI) UpdateUser(context.Context, string, domain.AccountUpdate) error { return nil }

func (a *stubClinicAPI) analyticsFailure(section string) error {
	return a.analyticsErr[section]
}

func (a *stubClinicAPI) TopDoctors(context.Context, domain.Period) ([]domain.TopDoctor, error) {
	if err := a.analyticsFailure("topDoctors"); err != nil {
		return nil, err
	}
	return []domain.TopDoctor{{DoctorID: "d1", DoctorName: "Dr. Who", AppointmentCount: 3}}, nil
}

func (a *stubClinicAPI) SpecialtyStats(context.Context, domain.Period) ([]domain.SpecialtyStat, error) {
	if err := a.analyticsFailure("specialtyStats"); err != nil {
		return nil, err
	}
	return []domain.SpecialtyStat{{Specialty: "Cardiology", AppointmentCount: 4}}, nil
}

func (a *stubClinicAPI) AgeDistribution(context.Context) ([]domain.AgeBucket, error) {
	if err := a.analyticsFailure("ageDistribution"); err != nil {
		return nil, err
	}
	return []domain.AgeBucket{{AgeGroup: "18-30", Count: 7}}, nil
}

func (a *stubClinicAPI) DoctorCountBySpecialty(context.Context) ([]domain.SpecialtyCount, error) {
	if err := a.analyticsFailure("doctorCountBySpecialty"); err != nil {
		return nil, err
	}
	return []domain.SpecialtyCount{{Specialty: "Cardiology", Count: 2}}, nil
}

func (a *stubClinicAPI) RoleDistribution(context.Context) ([]domain.RoleCount, error) {
	if err := a.analyticsFailure("roleDistribution"); err != nil {
		return nil, err
	}
	return []domain.RoleCount{{Role: "PATIENT", Count: 10}}, nil
}

type stubCatalog struct {
	doctors      []domain.Doctor
	records      []domain.MedicalRecord
	requisitions []domain.Requisition
	err          error
}

func (c *stubCatalog) Services(context.Context) ([]domain.ClinicService, error) { return nil, c.err }

func (c *stubCatalog) SampleDoctors(context.Context) ([]domain.Doctor, error) {
	return c.doctors, c.err
}

func (c *stubCatalog) SampleRecords(context.Context) ([]domain.MedicalRecord, error) {
	return c.records, c.err
}

// SampleRequisitions returns a fresh copy so in-place filtering cannot leak
// between calls.
func (c *stubCatalog) SampleRequisitions(context.Context) ([]domain.Requisition, error) {
	return append([]domain.Requisition(nil), c.requisitions...), c.err
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubRecorder) Record(e domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type stubGuard struct {
	held       map[string]bool
	acquireErr error
	released   int
}

func (g *stubGuard) Acquire(_ context.Context, sid, slot string) (bool, error) {
	if g.acquireErr != nil {
		return false, g.acquireErr
	}
	if g.held == nil {
		g.held = make(map[string]bool)
	}
	k := sid + ":" + slot
	if g.held[k] {
		return false, nil
	}
	g.held[k] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, sid, slot string) error {
	delete(g.held, sid+":"+slot)
	g.released++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func userWith(role domain.Role, profileID string) *domain.User {
	u := &domain.User{ID: "user-1", Email: "visitor@example.com", Roles: []domain.Role{role}}
	if profileID != "" {
		u.Profile = &domain.Profile{UserID: "user-1", RoleID: profileID}
	}
	return u
}

func signedIn(user *domain.User) *domain.Session {
	s := domain.NewSession("sess-1", fixedNow)
	s.Resolve(user, fixedNow)
	return s
}

func newAudit(t *testing.T, rec *stubRecorder) *AuditService {
	t.Helper()
	a, err := NewAuditService(rec, "test-key")
	if err != nil {
		t.Fatalf("audit service: %v", err)
	}
	return a
}

func apiErr(kind domain.ErrorKind) error {
	return &domain.APIError{Kind: kind, Op: "GET /test"}
}
