// Package worker runs the nightly reminder dispatch across every tenant.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/smilesync/booking-api/internal/repository"
	"github.com/smilesync/booking-api/internal/service/reminder"
)

type ReminderWorker struct {
	scheduler     gocron.Scheduler
	reminders     *reminder.Service
	organizations repository.OrganizationRepository
	dispatchHour  int
}

func NewReminderWorker(
	reminders *reminder.Service,
	organizations repository.OrganizationRepository,
	dispatchHour int,
) (*ReminderWorker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	w := &ReminderWorker{
		scheduler:     scheduler,
		reminders:     reminders,
		organizations: organizations,
		dispatchHour:  dispatchHour,
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(dispatchHour), 0, 0),
		)),
		gocron.NewTask(w.DispatchAll, context.Background()),
		gocron.WithName("reminder-dispatch"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register dispatch job: %w", err)
	}

	return w, nil
}

func (w *ReminderWorker) Start() {
	log.Info().Int("dispatch_hour", w.dispatchHour).Msg("starting reminder worker")
	w.scheduler.Start()
}

func (w *ReminderWorker) Stop() error {
	log.Info().Msg("stopping reminder worker")
	return w.scheduler.Shutdown()
}

// DispatchAll runs the reminder batch for every organization. One bad
// tenant does not stop the rest.
func (w *ReminderWorker) DispatchAll(ctx context.Context) {
	start := time.Now()

	orgs, err := w.organizations.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reminder dispatch: failed to list organizations")
		return
	}

	var sent, failed int
	for _, org := range orgs {
		summary, err := w.reminders.DispatchReminders(ctx, org.ID)
		if err != nil {
			log.Error().Err(err).Str("org_id", org.ID.String()).Msg("reminder dispatch failed for organization")
			continue
		}
		sent += summary.TotalSent
		failed += summary.TotalFailed
	}

	log.Info().
		Int("organizations", len(orgs)).
		Int("sent", sent).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("reminder dispatch complete")
}
