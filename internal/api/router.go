package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/dbmshealthcare/clinic-portal/internal/api/handler"
	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/http/handlers"
)

const signInLimiterExpiry = 3 * time.Minute

// Handlers are the route targets, built once at startup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Dashboard    *handler.DashboardHandler
	Booking      *handler.BookingHandler
	Appointments *handler.AppointmentHandler
	Directory    *handler.DirectoryHandler
	Clinical     *handler.ClinicalHandler
	Profile      *handler.ProfileHandler
	Public       *handler.PublicHandler
	Health       *handlers.HealthHandler
	Readiness    *handlers.ReadinessHandler
}

// Options configure the session layer and the sign-in limiter.
type Options struct {
	Sessions        ports.SessionStore
	NewAuth         middleware.ProviderFactory
	Session         middleware.SessionConfig
	RevalidateAfter time.Duration
	// SignInRate is sign-in attempts per second per client IP.
	SignInRate  float64
	SignInBurst int
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(log))
	e.Use(echoprometheus.NewMiddleware("clinic_portal_http"))

	// --- Infrastructure (no session) ---
	e.GET("/health", h.Health.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", h.Readiness.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal (visitor session on every route) ---
	portal := e.Group("", middleware.Session(opts.Sessions, opts.NewAuth, opts.Session, log))
	gate := middleware.NewGate(opts.RevalidateAfter)
	anyRole := gate.Protected()
	admin := gate.Protected(domain.RoleAdmin)
	doctor := gate.Protected(domain.RoleDoctor)
	patient := gate.Protected(domain.RolePatient)
	staff := gate.Protected(domain.RoleAdmin, domain.RoleDoctor)
	clinical := gate.Protected(domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient)
	careTeam := gate.Protected(domain.RoleDoctor, domain.RolePatient)

	// Public pages
	portal.GET("/", h.Public.Home)
	portal.GET("/services", h.Public.Services)
	portal.GET("/our-team", h.Public.Team)
	portal.GET("/contact-us", h.Public.ContactUs)
	portal.GET("/unauthorized", h.Public.Unauthorized)
	portal.GET("/booking", h.Booking.Doctors)
	portal.GET("/notifications", h.Auth.Notifications)

	// Auth
	portal.GET("/signin", h.Auth.SignInPage)
	portal.POST("/signin", h.Auth.SignIn, signInLimiter(opts))
	portal.GET("/signup", h.Auth.Notifications)
	portal.POST("/signup", h.Auth.SignUp)
	portal.GET("/verify", h.Auth.Notifications)
	portal.POST("/verify", h.Auth.Verify)
	portal.POST("/signout", h.Auth.SignOut)

	// Signed-in pages
	portal.GET("/dashboard", h.Dashboard.Get, anyRole)
	portal.GET("/profile", h.Profile.Index, anyRole)
	portal.GET("/profile/personal-information", h.Profile.PersonalInformation, anyRole)
	portal.GET("/profile/medical-history", h.Profile.MedicalHistory, anyRole)

	// Booking
	portal.GET("/booking/:doctorId", h.Booking.Calendar, patient)
	portal.POST("/booking/:doctorId", h.Booking.Submit, patient)

	// Appointments
	appts := portal.Group("/appointments")
	appts.GET("", h.Appointments.List, clinical)
	appts.POST("/:id/cancel", h.Appointments.Cancel, patient)
	appts.PUT("/:id/reason", h.Appointments.EditReason, patient)
	appts.POST("/:id/approve", h.Appointments.Approve, doctor)
	appts.POST("/:id/reject", h.Appointments.Reject, doctor)

	// Management
	m := portal.Group("/manage")

	m.GET("/doctors", h.Directory.ListDoctors, admin)
	m.GET("/doctors/by-user/:userId", h.Directory.GetDoctorByUser, admin)
	m.GET("/doctors/:id", h.Directory.GetDoctor, admin)
	m.POST("/doctors", h.Directory.CreateDoctor, admin)
	m.PUT("/doctors/:id", h.Directory.UpdateDoctor, admin)
	m.DELETE("/doctors/:id", h.Directory.DeleteDoctor, admin)

	m.GET("/patients", h.Directory.ListPatients, staff)
	m.GET("/patients/:id", h.Directory.GetPatient, staff)
	m.POST("/patients", h.Directory.CreatePatient, staff)
	m.PUT("/patients/:id", h.Directory.UpdatePatient, staff)
	m.DELETE("/patients/:id", h.Directory.DeletePatient, admin)

	m.GET("/records", h.Clinical.ListRecords, clinical)
	m.GET("/records/:id", h.Clinical.GetRecord, clinical)
	m.POST("/records", h.Clinical.CreateRecord, doctor)
	m.PUT("/records/:id", h.Clinical.UpdateRecord, doctor)
	m.DELETE("/records/:id", h.Clinical.DeleteRecord, doctor)

	m.GET("/requisitions", h.Clinical.ListRequisitions, careTeam)
	m.GET("/requisitions/:id", h.Clinical.GetRequisition, careTeam)
	m.POST("/requisitions", h.Clinical.CreateRequisition, doctor)
	m.PUT("/requisitions/:id/result", h.Clinical.RecordResult, doctor)
	m.DELETE("/requisitions/:id", h.Clinical.DeleteRequisition, doctor)

	m.GET("/users", h.Directory.ListUsers, admin)
	m.GET("/users/:id", h.Directory.GetUser, admin)
	m.PUT("/users/:id", h.Directory.UpdateUser, admin)

	m.GET("/appointments/:id", h.Directory.GetAppointment, admin)
	m.DELETE("/appointments/:id", h.Directory.DeleteAppointment, admin)
	m.GET("/slots/:id", h.Directory.GetSlot, admin)
	m.GET("/analytics", h.Directory.Analytics, admin)

	return e
}

// signInLimiter throttles credential attempts per client IP.
func signInLimiter(opts Options) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(opts.SignInRate),
		Burst:     opts.SignInBurst,
		ExpiresIn: signInLimiterExpiry,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many sign-in attempts, please wait a moment")
		},
	})
}
