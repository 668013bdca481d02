package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// AppointmentManager lists a visitor's appointments and changes them.
type AppointmentManager interface {
	List(ctx context.Context, sess *domain.Session) ([]domain.Appointment, error)
	Cancel(ctx context.Context, sess *domain.Session, id string) error
	Approve(ctx context.Context, sess *domain.Session, id string) error
	Reject(ctx context.Context, sess *domain.Session, id string) error
	EditReason(ctx context.Context, sess *domain.Session, id, reason string) error
}

type AppointmentHandler struct {
	appointments AppointmentManager
}

func NewAppointmentHandler(appointments AppointmentManager) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// List handles GET /appointments.
//
// @Summary      Appointments of the signed-in user
// @Tags         appointments
// @Produce      json
// @Success      200  {object}  appointmentsResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	list, err := h.appointments.List(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return h.respond(c, sess, list)
}

// Cancel handles POST /appointments/:id/cancel.
//
// @Summary      Cancel an appointment
// @Tags         appointments
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	return h.change(c, h.appointments.Cancel)
}

// Approve handles POST /appointments/:id/approve.
//
// @Summary      Approve a pending appointment
// @Tags         appointments
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id}/approve [post]
func (h *AppointmentHandler) Approve(c echo.Context) error {
	return h.change(c, h.appointments.Approve)
}

// Reject handles POST /appointments/:id/reject.
//
// @Summary      Reject a pending appointment
// @Tags         appointments
// @Produce      json
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentsResponse
// @Failure      404  {object}  errorResponse
// @Router       /appointments/{id}/reject [post]
func (h *AppointmentHandler) Reject(c echo.Context) error {
	return h.change(c, h.appointments.Reject)
}

// EditReason handles PUT /appointments/:id/reason.
//
// @Summary      Edit the visit reason
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Appointment ID"
// @Param        body  body      visitReasonRequest  true  "New visit reason (10 to 500 characters)"
// @Success      200   {object}  appointmentsResponse
// @Failure      422   {object}  errorResponse
// @Router       /appointments/{id}/reason [put]
func (h *AppointmentHandler) EditReason(c echo.Context) error {
	var req visitReasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := h.appointments.EditReason(c.Request().Context(), sess, c.Param("id"), req.VisitReason); err != nil {
		return &FormError{Err: err, Form: req}
	}
	return h.respond(c, sess, sess.KnownAppointments())
}

func (h *AppointmentHandler) change(c echo.Context, apply func(context.Context, *domain.Session, string) error) error {
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	if err := apply(c.Request().Context(), sess, c.Param("id")); err != nil {
		return err
	}
	// The list is patched in place; no re-fetch.
	return h.respond(c, sess, sess.KnownAppointments())
}

func (h *AppointmentHandler) respond(c echo.Context, sess *domain.Session, list []domain.Appointment) error {
	if list == nil {
		list = []domain.Appointment{}
	}
	return c.JSON(http.StatusOK, appointmentsResponse{
		Appointments:  list,
		Notifications: sess.DrainNotifications(),
	})
}
