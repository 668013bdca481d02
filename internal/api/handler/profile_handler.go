package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
)

type ProfileReader interface {
	PersonalInformation(ctx context.Context, sess *domain.Session) (*service.PersonalInformation, error)
	MedicalHistory(ctx context.Context, sess *domain.Session) (*service.MedicalHistory, error)
}

type ProfileHandler struct {
	profiles ProfileReader
}

func NewProfileHandler(profiles ProfileReader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Index handles GET /profile.
//
// @Summary      Profile sections
// @Tags         profile
// @Produce      json
// @Success      200  {object}  homeResponse
// @Router       /profile [get]
func (h *ProfileHandler) Index(c echo.Context) error {
	if _, _, err := ctxUser(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, homeResponse{Links: map[string]string{
		"personalInformation": "/profile/personal-information",
		"medicalHistory":      "/profile/medical-history",
	}})
}

// PersonalInformation handles GET /profile/personal-information.
//
// @Summary      Account and linked patient or doctor details
// @Tags         profile
// @Produce      json
// @Success      200  {object}  service.PersonalInformation
// @Failure      403  {object}  errorResponse
// @Router       /profile/personal-information [get]
func (h *ProfileHandler) PersonalInformation(c echo.Context) error {
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	info, err := h.profiles.PersonalInformation(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

// MedicalHistory handles GET /profile/medical-history.
//
// @Summary      Records and appointments of the signed-in patient
// @Tags         profile
// @Produce      json
// @Success      200  {object}  service.MedicalHistory
// @Failure      403  {object}  errorResponse
// @Router       /profile/medical-history [get]
func (h *ProfileHandler) MedicalHistory(c echo.Context) error {
	sess, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	hist, err := h.profiles.MedicalHistory(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hist)
}
