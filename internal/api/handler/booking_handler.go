package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

// Booker is the booking flow as seen over HTTP.
type Booker interface {
	Doctors(ctx context.Context) ([]domain.Doctor, bool, error)
	Calendar(ctx context.Context, doctorID, day string) (*service.Calendar, error)
	Submit(ctx context.Context, sess *domain.Session, form service.BookingForm) (*domain.Appointment, error)
}

type BookingHandler struct {
	booking Booker
}

func NewBookingHandler(booking Booker) *BookingHandler {
	return &BookingHandler{booking: booking}
}

// Doctors handles GET /booking.
//
// @Summary      Bookable doctors
// @Tags         booking
// @Produce      json
// @Success      200  {object}  doctorsResponse
// @Failure      503  {object}  errorResponse
// @Router       /booking [get]
func (h *BookingHandler) Doctors(c echo.Context) error {
	doctors, degraded, err := h.booking.Doctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctorsResponse{Doctors: orEmpty(doctors), Degraded: degraded})
}

// Calendar handles GET /booking/:doctorId.
//
// @Summary      Doctor availability
// @Description  Enabled days are clinic-local calendar days holding at least one slot. With date set, that day's slots are listed; booked ones are disabled.
// @Tags         booking
// @Produce      json
// @Param        doctorId  path      string  true   "Doctor ID"
// @Param        date      query     string  false  "Day to list (YYYY-MM-DD)"
// @Success      200       {object}  service.Calendar
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /booking/{doctorId} [get]
func (h *BookingHandler) Calendar(c echo.Context) error {
	cal, err := h.booking.Calendar(c.Request().Context(), c.Param("doctorId"), c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cal)
}

// Submit handles POST /booking/:doctorId.
//
// @Summary      Book a slot
// @Description  Without a slot the submission is ignored. On failure the form is echoed back for a manual resubmit.
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        doctorId  path      string          true  "Doctor ID"
// @Param        body      body      bookingRequest  true  "Selected slot"
// @Success      303       "booked, redirect to /dashboard"
// @Success      204       "no slot selected"
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /booking/{doctorId} [post]
func (h *BookingHandler) Submit(c echo.Context) error {
	var req bookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	_, err = h.booking.Submit(c.Request().Context(), sess, service.BookingForm{
		SlotID:      req.SlotID,
		VisitReason: req.VisitReason,
	})
	switch {
	case errors.Is(err, domain.ErrNoSlotSelected):
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return err
	case err != nil:
		return &FormError{Err: err, Form: req}
	}
	return c.Redirect(http.StatusSeeOther, dashboardPath)
}
