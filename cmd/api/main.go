package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/telehealth-api/internal/config"
	"github.com/jwalitptl/telehealth-api/internal/email"
	"github.com/jwalitptl/telehealth-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/telehealth-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/telehealth-api/internal/handler/auth"
	availabilityHandler "github.com/jwalitptl/telehealth-api/internal/handler/availability"
	ehrHandler "github.com/jwalitptl/telehealth-api/internal/handler/ehr"
	prescriptionHandler "github.com/jwalitptl/telehealth-api/internal/handler/prescription"
	signalingHandler "github.com/jwalitptl/telehealth-api/internal/handler/signaling"
	storageHandler "github.com/jwalitptl/telehealth-api/internal/handler/storage"
	userHandler "github.com/jwalitptl/telehealth-api/internal/handler/user"
	"github.com/jwalitptl/telehealth-api/internal/middleware"
	"github.com/jwalitptl/telehealth-api/internal/repository/postgres"
	"github.com/jwalitptl/telehealth-api/internal/router"
	appointmentService "github.com/jwalitptl/telehealth-api/internal/service/appointment"
	authService "github.com/jwalitptl/telehealth-api/internal/service/auth"
	availabilityService "github.com/jwalitptl/telehealth-api/internal/service/availability"
	ehrService "github.com/jwalitptl/telehealth-api/internal/service/ehr"
	eventService "github.com/jwalitptl/telehealth-api/internal/service/event"
	prescriptionService "github.com/jwalitptl/telehealth-api/internal/service/prescription"
	storageService "github.com/jwalitptl/telehealth-api/internal/service/storage"
	userService "github.com/jwalitptl/telehealth-api/internal/service/user"
	"github.com/jwalitptl/telehealth-api/pkg/auth"
	"github.com/jwalitptl/telehealth-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	ehrRepo := postgres.NewEHRRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.RefreshSecret)
	emailSvc := email.NewSMTPService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	eventSvc := eventService.NewService(outboxRepo)

	location := time.Local
	if cfg.Availability.Timezone != "" {
		location, err = time.LoadLocation(cfg.Availability.Timezone)
		if err != nil {
			log.Fatal().Err(err).Str("timezone", cfg.Availability.Timezone).Msg("invalid availability timezone")
		}
	}

	authSvc := authService.NewService(userRepo, jwtSvc)
	userSvc := userService.NewService(userRepo)
	availabilitySvc := availabilityService.NewService(availabilityRepo, appointmentRepo, availabilityService.Config{
		SlotDuration: time.Duration(cfg.Availability.SlotDurationMinutes) * time.Minute,
		Location:     location,
	})
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, eventSvc, emailSvc)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo)
	ehrSvc := ehrService.NewService(ehrRepo)

	storageSvc, err := storageService.NewService(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage service")
	}

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	m := metrics.New("telehealth_api")

	handlers := router.Handlers{
		Auth:         authHandler.NewHandler(authSvc, userRepo),
		User:         userHandler.NewHandler(userSvc),
		Availability: availabilityHandler.NewHandler(availabilitySvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Prescription: prescriptionHandler.NewHandler(prescriptionSvc),
		EHR:          ehrHandler.NewHandler(ehrSvc),
		Storage:      storageHandler.NewHandler(storageSvc),
		Signaling:    signalingHandler.NewHandler(signalingHandler.NewHub()),
		Health:       handler.NewHandler(),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}

	r := router.New(authMiddleware, handlers, m, router.Config{
		RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:  cfg.RateLimit.Burst,
		CORSConfig: corsConfig,
		Timeout:    cfg.Server.Timeout(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
