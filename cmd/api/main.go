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

	"github.com/smilesync/booking-api/config"
	"github.com/smilesync/booking-api/internal/handler"
	appointmentHandler "github.com/smilesync/booking-api/internal/handler/appointment"
	authHandler "github.com/smilesync/booking-api/internal/handler/auth"
	calendarHandler "github.com/smilesync/booking-api/internal/handler/calendar"
	dentistHandler "github.com/smilesync/booking-api/internal/handler/dentist"
	patientHandler "github.com/smilesync/booking-api/internal/handler/patient"
	reminderHandler "github.com/smilesync/booking-api/internal/handler/reminder"
	serviceHandler "github.com/smilesync/booking-api/internal/handler/service"
	"github.com/smilesync/booking-api/internal/middleware"
	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository/postgres"
	"github.com/smilesync/booking-api/internal/router"
	authService "github.com/smilesync/booking-api/internal/service/auth"
	calendarService "github.com/smilesync/booking-api/internal/service/calendar"
	"github.com/smilesync/booking-api/internal/service/directory"
	reminderService "github.com/smilesync/booking-api/internal/service/reminder"
	"github.com/smilesync/booking-api/internal/service/scheduler"
	"github.com/smilesync/booking-api/pkg/auth"
	"github.com/smilesync/booking-api/pkg/logger"
	"github.com/smilesync/booking-api/pkg/messaging"
	redisBroker "github.com/smilesync/booking-api/pkg/messaging/redis"
	"github.com/smilesync/booking-api/pkg/metrics"
	"github.com/smilesync/booking-api/pkg/notifier"
	"github.com/smilesync/booking-api/pkg/security"
	"github.com/smilesync/booking-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	dentistRepo := postgres.NewDentistRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	organizationRepo := postgres.NewOrganizationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Message broker, optional
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.Redis.URL}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	m := metrics.NewMetrics("smilesync")

	// Services
	schedulerSvc := scheduler.NewService(appointmentRepo, patientRepo, dentistRepo, serviceRepo, broker, m)
	calendarSvc := calendarService.NewService(appointmentRepo)
	directorySvc := directory.NewService(patientRepo, dentistRepo, serviceRepo)
	reminderSvc := reminderService.NewService(
		appointmentRepo, patientRepo, dentistRepo, organizationRepo,
		buildNotifier(cfg.Notifier), broker, m,
	)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(userRepo, security.NewBcryptHasher(0), tokens)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(tokens)
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	adminOnly := authMiddleware.RequireRole(model.RoleAdmin)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(schedulerSvc),
		calendarHandler.NewHandler(calendarSvc),
		reminderHandler.NewHandler(reminderSvc),
		patientHandler.NewHandler(directorySvc),
		dentistHandler.NewHandler(directorySvc, adminOnly),
		serviceHandler.NewHandler(directorySvc, adminOnly),
		handler.NewHealthHandler(db),
		router.RouterConfig{
			RateLimitRPS:  cfg.RateLimit.RequestsPerSecond,
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    corsConfig,
			MetricsPrefix: "smilesync",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func buildNotifier(cfg config.NotifierConfig) notifier.Notifier {
	switch cfg.Provider {
	case "webhook":
		return notifier.NewWebhookNotifier(notifier.WebhookConfig{
			URL:      cfg.Webhook.URL,
			Token:    cfg.Webhook.Token,
			WhatsApp: cfg.Webhook.WhatsApp,
			Timeout:  cfg.Webhook.Timeout,
		})
	case "email":
		return notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	default:
		return notifier.NoopNotifier{}
	}
}
