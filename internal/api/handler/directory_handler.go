package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// DirectoryAPI is the slice of the clinic API behind the management pages.
type DirectoryAPI interface {
	ports.DoctorAPI
	ports.PatientAPI
	ports.UserAPI
	GetAppointment(ctx context.Context, id string) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	GetSlot(ctx context.Context, id string) (*domain.Slot, error)
}

// ReportBuilder produces the admin analytics report.
type ReportBuilder interface {
	CurrentPeriod() domain.Period
	Report(ctx context.Context, p domain.Period) *domain.AnalyticsReport
}

// DirectoryHandler serves the admin and doctor management routes for
// doctors, patients, user accounts and analytics. Role checks happen in the
// gate; handlers only scope data to the caller.
type DirectoryHandler struct {
	api       DirectoryAPI
	analytics ReportBuilder
}

func NewDirectoryHandler(api DirectoryAPI, analytics ReportBuilder) *DirectoryHandler {
	return &DirectoryHandler{api: api, analytics: analytics}
}

// --- Doctors ---

// ListDoctors handles GET /manage/doctors.
//
// @Summary      List doctors
// @Tags         manage
// @Produce      json
// @Success      200  {array}   domain.Doctor
// @Failure      503  {object}  errorResponse
// @Router       /manage/doctors [get]
func (h *DirectoryHandler) ListDoctors(c echo.Context) error {
	list, err := h.api.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// GetDoctor handles GET /manage/doctors/:id.
//
// @Summary      Get a doctor
// @Tags         manage
// @Produce      json
// @Param        id   path      string  true  "Doctor ID"
// @Success      200  {object}  domain.Doctor
// @Failure      404  {object}  errorResponse
// @Router       /manage/doctors/{id} [get]
func (h *DirectoryHandler) GetDoctor(c echo.Context) error {
	d, err := h.api.GetDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// GetDoctorByUser handles GET /manage/doctors/by-user/:userId.
//
// @Summary      Get the doctor linked to a user account
// @Tags         manage
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  domain.Doctor
// @Failure      404     {object}  errorResponse
// @Router       /manage/doctors/by-user/{userId} [get]
func (h *DirectoryHandler) GetDoctorByUser(c echo.Context) error {
	d, err := h.api.GetDoctorByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// CreateDoctor handles POST /manage/doctors.
//
// @Summary      Create a doctor
// @Tags         manage
// @Accept       json
// @Produce      json
// @Param        body  body      doctorRequest  true  "Doctor"
// @Success      201   {object}  domain.Doctor
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/doctors [post]
func (h *DirectoryHandler) CreateDoctor(c echo.Context) error {
	var req doctorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.api.CreateDoctor(c.Request().Context(), toDoctorCreate(req))
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusCreated, d)
}

// UpdateDoctor handles PUT /manage/doctors/:id.
//
// @Summary      Update a doctor
// @Tags         manage
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Doctor ID"
// @Param        body  body      doctorUpdateRequest  true  "Changed fields"
// @Success      200   {object}  domain.Doctor
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/doctors/{id} [put]
func (h *DirectoryHandler) UpdateDoctor(c echo.Context) error {
	var req doctorUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.api.UpdateDoctor(c.Request().Context(), c.Param("id"), toDoctorUpdate(req))
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteDoctor handles DELETE /manage/doctors/:id.
//
// @Summary      Delete a doctor
// @Tags         manage
// @Param        id   path  string  true  "Doctor ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /manage/doctors/{id} [delete]
func (h *DirectoryHandler) DeleteDoctor(c echo.Context) error {
	if err := h.api.DeleteDoctor(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Patients ---

// ListPatients handles GET /manage/patients. Doctors see their own patients.
//
// @Summary      List patients
// @Tags         manage
// @Produce      json
// @Success      200  {array}   domain.Patient
// @Failure      403  {object}  errorResponse
// @Router       /manage/patients [get]
func (h *DirectoryHandler) ListPatients(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var list []domain.Patient
	if role, _ := user.PrimaryRole(); role == domain.RoleDoctor {
		doctorID := user.ProfileID()
		if doctorID == "" {
			return domain.ErrNoProfile
		}
		list, err = h.api.ListPatientsByDoctor(ctx, doctorID)
	} else {
		list, err = h.api.ListPatients(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// GetPatient handles GET /manage/patients/:id.
//
// @Summary      Get a patient
// @Tags         manage
// @Produce      json
// @Param        id   path      string  true  "Patient ID"
// @Success      200  {object}  domain.Patient
// @Failure      404  {object}  errorResponse
// @Router       /manage/patients/{id} [get]
func (h *DirectoryHandler) GetPatient(c echo.Context) error {
	p, err := h.api.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePatient handles POST /manage/patients.
//
// @Summary      Create a patient
// @Tags         manage
// @Accept       json
// @Produce      json
// @Param        body  body      patientRequest  true  "Patient"
// @Success      201   {object}  domain.Patient
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/patients [post]
func (h *DirectoryHandler) CreatePatient(c echo.Context) error {
	var req patientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.api.CreatePatient(c.Request().Context(), toPatientCreate(req))
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePatient handles PUT /manage/patients/:id.
//
// @Summary      Update a patient's address
// @Tags         manage
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Patient ID"
// @Param        body  body      patientUpdateRequest  true  "Address"
// @Success      200   {object}  domain.Patient
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/patients/{id} [put]
func (h *DirectoryHandler) UpdatePatient(c echo.Context) error {
	var req patientUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.api.UpdatePatient(c.Request().Context(), c.Param("id"), domain.PatientUpdate{Address: req.Address})
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePatient handles DELETE /manage/patients/:id.
//
// @Summary      Delete a patient
// @Tags         manage
// @Param        id   path  string  true  "Patient ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /manage/patients/{id} [delete]
func (h *DirectoryHandler) DeletePatient(c echo.Context) error {
	if err := h.api.DeletePatient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Users ---

// ListUsers handles GET /manage/users.
//
// @Summary      List user accounts
// @Tags         manage
// @Produce      json
// @Success      200  {array}   domain.Account
// @Router       /manage/users [get]
func (h *DirectoryHandler) ListUsers(c echo.Context) error {
	list, err := h.api.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orEmpty(list))
}

// GetUser handles GET /manage/users/:id.
//
// @Summary      Get a user account
// @Tags         manage
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /manage/users/{id} [get]
func (h *DirectoryHandler) GetUser(c echo.Context) error {
	u, err := h.api.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUser handles PUT /manage/users/:id.
//
// @Summary      Update a user account or its roles
// @Tags         manage
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "User ID"
// @Param        body  body      accountUpdateRequest  true  "Changed fields"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/users/{id} [put]
func (h *DirectoryHandler) UpdateUser(c echo.Context) error {
	var req accountUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.api.UpdateUser(c.Request().Context(), c.Param("id"), toAccountUpdate(req)); err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user updated"})
}

// --- Appointments / slots (admin) ---

// GetAppointment handles GET /manage/appointments/:id.
//
// @Summary      Get an appointment
// @Tags         manage
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  domain.Appointment
// @Failure      404  {object}  errorResponse
// @Router       /manage/appointments/{id} [get]
func (h *DirectoryHandler) GetAppointment(c echo.Context) error {
	a, err := h.api.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAppointment handles DELETE /manage/appointments/:id.
//
// @Summary      Delete an appointment
// @Tags         manage
// @Param        id   path  string  true  "Appointment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /manage/appointments/{id} [delete]
func (h *DirectoryHandler) DeleteAppointment(c echo.Context) error {
	if err := h.api.DeleteAppointment(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSlot handles GET /manage/slots/:id.
//
// @Summary      Get a slot
// @Tags         manage
// @Produce      json
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  domain.Slot
// @Failure      404  {object}  errorResponse
// @Router       /manage/slots/{id} [get]
func (h *DirectoryHandler) GetSlot(c echo.Context) error {
	s, err := h.api.GetSlot(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// --- Analytics ---

// Analytics handles GET /manage/analytics.
//
// @Summary      Clinic analytics
// @Description  Sections that fail to load are listed in unavailable; the rest are still returned.
// @Tags         manage
// @Produce      json
// @Param        month  query     int  false  "Month (1-12), defaults to the current clinic month"
// @Param        year   query     int  false  "Year"
// @Success      200    {object}  domain.AnalyticsReport
// @Failure      400    {object}  errorResponse
// @Router       /manage/analytics [get]
func (h *DirectoryHandler) Analytics(c echo.Context) error {
	period, ok := parsePeriod(c.QueryParam("month"), c.QueryParam("year"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid analytics period")
	}
	p := h.analytics.CurrentPeriod()
	if period != nil {
		p = *period
	}
	return c.JSON(http.StatusOK, h.analytics.Report(c.Request().Context(), p))
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
