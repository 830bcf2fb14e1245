package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/smilesync/booking-api/config"
	"github.com/smilesync/booking-api/internal/repository/postgres"
	reminderService "github.com/smilesync/booking-api/internal/service/reminder"
	"github.com/smilesync/booking-api/pkg/logger"
	"github.com/smilesync/booking-api/pkg/messaging"
	redisBroker "github.com/smilesync/booking-api/pkg/messaging/redis"
	"github.com/smilesync/booking-api/pkg/metrics"
	"github.com/smilesync/booking-api/pkg/notifier"
	"github.com/smilesync/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	logger.Setup(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
	})

	db, err := postgres.NewDB(cfg.DatabaseConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var broker messaging.Broker
	if cfg.RedisURL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.RedisURL}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	dentistRepo := postgres.NewDentistRepository(db)
	organizationRepo := postgres.NewOrganizationRepository(db)

	m := metrics.NewMetrics("smilesync_worker")

	reminderSvc := reminderService.NewService(
		appointmentRepo, patientRepo, dentistRepo, organizationRepo,
		buildNotifier(cfg), broker, m,
	)

	w, err := worker.NewReminderWorker(reminderSvc, organizationRepo, cfg.DispatchHour)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create reminder worker")
	}
	w.Start()

	setupMonitoring(cfg.MetricsPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")

	if err := w.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop worker cleanly")
	}

	log.Info().Msg("worker exited properly")
}

func setupMonitoring(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			log.Error().Err(err).Msg("monitoring server failed")
		}
	}()
}

func buildNotifier(cfg *config.WorkerConfig) notifier.Notifier {
	if cfg.Notifier.Provider == "webhook" {
		return notifier.NewWebhookNotifier(notifier.WebhookConfig{
			URL:      cfg.Notifier.URL,
			Token:    cfg.Notifier.Token,
			WhatsApp: cfg.Notifier.WhatsApp,
			Timeout:  cfg.Notifier.Timeout,
		})
	}
	return notifier.NoopNotifier{}
}
