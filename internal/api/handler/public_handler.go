package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// ServiceCatalog serves the marketing list of clinic services.
type ServiceCatalog interface {
	Services(ctx context.Context) ([]domain.ClinicService, error)
}

// TeamLister lists the clinic's doctors; degraded marks sample data.
type TeamLister interface {
	Doctors(ctx context.Context) ([]domain.Doctor, bool, error)
}

// Contact is the clinic's public contact block.
type Contact struct {
	Phone   string
	Email   string
	Address string
	Hours   string
}

// PublicHandler serves the pages that need no sign-in.
type PublicHandler struct {
	catalog ServiceCatalog
	team    TeamLister
	contact Contact
}

func NewPublicHandler(catalog ServiceCatalog, team TeamLister, contact Contact) *PublicHandler {
	return &PublicHandler{catalog: catalog, team: team, contact: contact}
}

// Home handles GET /.
//
// @Summary      Landing page links
// @Tags         public
// @Produce      json
// @Success      200  {object}  homeResponse
// @Router       / [get]
func (h *PublicHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, homeResponse{Links: map[string]string{
		"booking":   "/booking",
		"services":  "/services",
		"team":      "/our-team",
		"contact":   "/contact-us",
		"signin":    "/signin",
		"dashboard": dashboardPath,
	}})
}

// Services handles GET /services.
//
// @Summary      Clinic services
// @Tags         public
// @Produce      json
// @Success      200  {object}  servicesResponse
// @Failure      503  {object}  errorResponse
// @Router       /services [get]
func (h *PublicHandler) Services(c echo.Context) error {
	list, err := h.catalog.Services(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, servicesResponse{Services: orEmpty(list)})
}

// Team handles GET /our-team.
//
// @Summary      Clinic doctors
// @Tags         public
// @Produce      json
// @Success      200  {object}  doctorsResponse
// @Failure      503  {object}  errorResponse
// @Router       /our-team [get]
func (h *PublicHandler) Team(c echo.Context) error {
	doctors, degraded, err := h.team.Doctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctorsResponse{Doctors: orEmpty(doctors), Degraded: degraded})
}

// ContactUs handles GET /contact-us.
//
// @Summary      Contact details
// @Tags         public
// @Produce      json
// @Success      200  {object}  contactResponse
// @Router       /contact-us [get]
func (h *PublicHandler) ContactUs(c echo.Context) error {
	return c.JSON(http.StatusOK, contactResponse{
		Phone:   h.contact.Phone,
		Email:   h.contact.Email,
		Address: h.contact.Address,
		Hours:   h.contact.Hours,
	})
}

// Unauthorized handles GET /unauthorized, the gate's redirect target for
// signed-in users without a permitted role.
//
// @Summary      Access denied page
// @Tags         public
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /unauthorized [get]
func (h *PublicHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "You do not have access to this page."})
}
