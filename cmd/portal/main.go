// @title        Clinic Portal API
// @version      1.0
// @description  Backend-for-frontend of the clinic patient portal.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/dbmshealthcare/clinic-portal/internal/api"
	"github.com/dbmshealthcare/clinic-portal/internal/api/handler"
	"github.com/dbmshealthcare/clinic-portal/internal/api/middleware"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
	"github.com/dbmshealthcare/clinic-portal/internal/core/service"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/clinicapi"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/config"
	mongodb "github.com/dbmshealthcare/clinic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/dbmshealthcare/clinic-portal/internal/infrastructure/db/redis"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/http/handlers"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/queue"
	"github.com/dbmshealthcare/clinic-portal/pkg/logger"

	_ "github.com/dbmshealthcare/clinic-portal/docs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := logger.Init(logger.Options{Service: "clinic-portal"})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-portal",
	})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("clinic time zone")
	}

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "clinic-portal",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}

	auditRepo := mongodb.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not ensured")
	}
	catalog := mongodb.NewCatalogRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	guard := redisdb.NewSubmitGuard(rdb)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)

	client, err := clinicapi.New(clinicapi.Config{
		APIBaseURL:  cfg.Upstream.APIBaseURL,
		AuthBaseURL: cfg.Upstream.AuthBaseURL,
		Location:    loc,
		Logger:      logger.Component("clinicapi"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("clinic api client")
	}

	// --- Services ---
	audit, err := service.NewAuditService(dispatcher, cfg.Audit.HashKey)
	if err != nil {
		log.Fatal().Err(err).Msg("audit service")
	}
	fallback := service.NewFallback(catalog, cfg.FallbackCatalog, logger.Component("fallback"))
	if fallback.Enabled() {
		log.Warn().Msg("degraded-mode sample catalog is enabled")
	}

	appointments := service.NewAppointmentService(client, audit, logger.Component("appointments"))
	clinical := service.NewClinicalService(client, fallback, logger.Component("clinical"))
	analytics := service.NewAnalyticsService(client, loc, logger.Component("analytics"))
	booking := service.NewBookingService(client, guard, fallback, audit, loc, logger.Component("booking"))
	dashboards := service.NewDashboardService(client, appointments, clinical, analytics, logger.Component("dashboard"))
	profiles := service.NewProfileService(client, clinical, appointments, logger.Component("profile"))

	authLog := logger.Component("auth")
	newAuth := func(sess *domain.Session) ports.AuthProvider {
		return service.NewAuthProvider(sess, client, audit, authLog)
	}

	// --- HTTP ---
	e := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(),
		Dashboard:    handler.NewDashboardHandler(dashboards),
		Booking:      handler.NewBookingHandler(booking),
		Appointments: handler.NewAppointmentHandler(appointments),
		Directory:    handler.NewDirectoryHandler(client, analytics),
		Clinical:     handler.NewClinicalHandler(client, clinical),
		Profile:      handler.NewProfileHandler(profiles),
		Public: handler.NewPublicHandler(catalog, booking, handler.Contact{
			Phone:   cfg.Contact.Phone,
			Email:   cfg.Contact.Email,
			Address: cfg.Contact.Address,
			Hours:   cfg.Contact.Hours,
		}),
		Health: handlers.NewHealthHandler(),
		Readiness: handlers.NewReadinessHandler(map[string]handlers.Probe{
			"sessions": handlers.RedisProbe(rdb),
			"audit":    handlers.MongoProbe(db),
		}),
	}, api.Options{
		Sessions: sessions,
		NewAuth:  newAuth,
		Session: middleware.SessionConfig{
			Secret:       []byte(cfg.Session.Secret),
			TTL:          cfg.Session.TTL,
			CookieSecure: cfg.Session.CookieSecure,
		},
		RevalidateAfter: cfg.Session.RevalidateAfter,
		SignInRate:      cfg.SignInRate,
		SignInBurst:     cfg.SignInBurst,
	}, logger.Component("http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("clinic portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// In-flight requests are done; flush what they queued.
	stopWorkers()
	dispatcher.Wait()

	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
	log.Info().Msg("stopped")
}
