package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
	"github.com/smilesync/booking-api/pkg/messaging"
	"github.com/smilesync/booking-api/pkg/metrics"
)

// Business rules
const (
	DefaultDuration    = 30 * time.Minute
	MinDuration        = 15 * time.Minute
	MaxDuration        = 4 * time.Hour
	BusinessDayStart   = 8  // inclusive, start-of-appointment hour
	BusinessDayEnd     = 20 // exclusive
	durationCacheTTL   = 5 * time.Minute
	durationCachePurge = 10 * time.Minute
)

// Service orchestrates the appointment lifecycle: create, move, update,
// delete. Every operation is tenant-scoped and conflict-checked before
// the repository commits it under a serializable guard.
type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	dentists     repository.DentistRepository
	services     repository.ServiceRepository
	broker       messaging.Broker
	metrics      *metrics.Metrics
	durations    *cache.Cache
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	dentists repository.DentistRepository,
	services repository.ServiceRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		dentists:     dentists,
		services:     services,
		broker:       broker,
		metrics:      m,
		durations:    cache.New(durationCacheTTL, durationCachePurge),
		now:          time.Now,
	}
}

// validateBusinessHours checks only the start hour against the operating
// window. The computed end hour is deliberately not checked, matching the
// established booking behavior clinics rely on for late slots.
func validateBusinessHours(start time.Time) error {
	hour := start.Hour()
	if hour < BusinessDayStart || hour >= BusinessDayEnd {
		return apperrors.BusinessHours("appointments must start between 08:00 and 20:00")
	}
	return nil
}

// resolveDuration picks the appointment length: explicit request value,
// then the service catalog default, then 30 minutes.
func (s *Service) resolveDuration(ctx context.Context, orgID uuid.UUID, serviceID *uuid.UUID, requested int) (time.Duration, error) {
	if requested != 0 {
		d := time.Duration(requested) * time.Minute
		if d < MinDuration || d > MaxDuration {
			return 0, apperrors.Validation(
				fmt.Sprintf("duration must be between %v and %v", MinDuration, MaxDuration), nil)
		}
		return d, nil
	}

	if serviceID != nil {
		cacheKey := orgID.String() + ":" + serviceID.String()
		if v, ok := s.durations.Get(cacheKey); ok {
			return v.(time.Duration), nil
		}
		svc, err := s.services.Get(ctx, orgID, *serviceID)
		if err != nil {
			return 0, err
		}
		d := time.Duration(svc.DurationMinutes) * time.Minute
		s.durations.Set(cacheKey, d, cache.DefaultExpiration)
		return d, nil
	}

	return DefaultDuration, nil
}

func (s *Service) Create(ctx context.Context, orgID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	duration, err := s.resolveDuration(ctx, orgID, req.ServiceID, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	start := req.StartTime
	end := start.Add(duration)

	if err := validateBusinessHours(start); err != nil {
		return nil, err
	}

	// Patient and dentist must exist inside this tenant.
	if _, err := s.patients.Get(ctx, orgID, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.dentists.Get(ctx, orgID, req.DentistID); err != nil {
		return nil, err
	}

	active, err := s.appointments.ListActiveByDentist(ctx, orgID, req.DentistID, start, end)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if blocking := FindConflict(active, start, end, uuid.Nil); blocking != nil {
		s.metrics.ConflictsRejected.WithLabelValues(orgID.String()).Inc()
		return nil, apperrors.Conflict("time slot already booked", nil)
	}

	apt := &model.Appointment{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgID,
		DentistID:      req.DentistID,
		PatientID:      req.PatientID,
		ServiceID:      req.ServiceID,
		StartTime:      start,
		EndTime:        end,
		Status:         model.AppointmentStatusScheduled,
		Notes:          req.Notes,
	}

	// The repository re-runs the conflict check inside a serializable
	// transaction, closing the race between concurrent bookings.
	if err := s.appointments.Create(ctx, apt); err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) {
			s.metrics.ConflictsRejected.WithLabelValues(orgID.String()).Inc()
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.AppointmentsCreated.WithLabelValues(orgID.String()).Inc()
	s.publish(ctx, orgID, messaging.EventAppointmentCreated, apt)

	return apt, nil
}

func (s *Service) Move(ctx context.Context, orgID, id uuid.UUID, req *model.MoveAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	newStart := req.NewStartTime
	newEnd := newStart.Add(apt.Duration()) // duration is preserved across moves

	if err := validateBusinessHours(newStart); err != nil {
		return nil, err
	}

	targetDentist := apt.DentistID
	if req.NewDentistID != nil {
		targetDentist = *req.NewDentistID
		if _, err := s.dentists.Get(ctx, orgID, targetDentist); err != nil {
			return nil, err
		}
	}

	active, err := s.appointments.ListActiveByDentist(ctx, orgID, targetDentist, newStart, newEnd)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if blocking := FindConflict(active, newStart, newEnd, apt.ID); blocking != nil {
		s.metrics.ConflictsRejected.WithLabelValues(orgID.String()).Inc()
		return nil, apperrors.Conflict("time slot already booked for the selected dentist", nil)
	}

	apt.StartTime = newStart
	apt.EndTime = newEnd
	apt.DentistID = targetDentist

	if err := s.appointments.UpdateSlot(ctx, apt); err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) || apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}

	s.metrics.AppointmentsMoved.WithLabelValues(orgID.String()).Inc()
	s.publish(ctx, orgID, messaging.EventAppointmentMoved, apt)

	return apt, nil
}

func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	// Slot-affecting changes go through the move path with field merge.
	if req.StartTime != nil || req.DentistID != nil {
		newStart := apt.StartTime
		if req.StartTime != nil {
			newStart = *req.StartTime
		}
		moved, err := s.Move(ctx, orgID, id, &model.MoveAppointmentRequest{
			NewStartTime: newStart,
			NewDentistID: req.DentistID,
		})
		if err != nil {
			return nil, err
		}
		apt = moved
	}

	changed := false

	if req.Status != nil && *req.Status != apt.Status {
		if !CanTransition(apt.Status, *req.Status) {
			return nil, apperrors.Validation(
				fmt.Sprintf("cannot transition appointment from %s to %s", apt.Status, *req.Status), nil)
		}
		apt.Status = *req.Status
		if apt.Status == model.AppointmentStatusConfirmed && apt.ConfirmedAt == nil {
			now := s.now()
			apt.ConfirmedAt = &now
		}
		changed = true
	}

	if req.Notes != nil {
		apt.Notes = *req.Notes
		changed = true
	}
	if req.ServiceID != nil {
		apt.ServiceID = req.ServiceID
		changed = true
	}

	if changed {
		// Status-only changes skip conflict re-validation: a terminal
		// appointment is excluded from active-status checks anyway.
		if err := s.appointments.Update(ctx, apt); err != nil {
			if apperrors.IsCode(err, apperrors.ErrNotFound) {
				return nil, err
			}
			return nil, apperrors.Internal(err)
		}

		event := messaging.EventAppointmentUpdated
		if apt.Status == model.AppointmentStatusCancelled {
			event = messaging.EventAppointmentCancelled
		}
		s.publish(ctx, orgID, event, apt)
	}

	return apt, nil
}

func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.appointments.Get(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, orgID, id); err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, orgID, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// publish emits a lifecycle event on the tenant channel. Best effort:
// booking must not fail because eventing is down.
func (s *Service) publish(ctx context.Context, orgID uuid.UUID, eventType string, apt *model.Appointment) {
	if s.broker == nil {
		return
	}
	event := messaging.Event{
		Type:    eventType,
		OrgID:   orgID.String(),
		Payload: apt,
	}
	if err := s.broker.Publish(ctx, "appointments:"+orgID.String(), event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Str("org_id", orgID.String()).Msg("failed to publish appointment event")
	}
}
