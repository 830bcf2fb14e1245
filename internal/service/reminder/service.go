package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
	"github.com/smilesync/booking-api/pkg/messaging"
	"github.com/smilesync/booking-api/pkg/metrics"
	"github.com/smilesync/booking-api/pkg/notifier"
)

// replyWindow bounds how far ahead an inbound reply can act: only the
// patient's earliest SCHEDULED appointment within the next 7 days.
const replyWindow = 7 * 24 * time.Hour

var (
	affirmativeKeywords = []string{"SI", "YES", "CONFIRMO"}
	negativeKeywords    = []string{"NO", "CANCELO", "CANCEL"}
)

// DispatchResult reports the per-appointment outcome of a dispatch batch.
type DispatchResult struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	Phone         string    `json:"phone"`
	Success       bool      `json:"success"`
	MessageID     string    `json:"sid,omitempty"`
	Error         string    `json:"error,omitempty"`
}

type DispatchSummary struct {
	TotalSent   int              `json:"total_sent"`
	TotalFailed int              `json:"total_failed"`
	Results     []DispatchResult `json:"results"`
}

// Service drives the reminder/confirmation state machine. Dispatch is an
// externally triggered batch; inbound replies arrive via webhook. There
// is no in-process scheduler here.
type Service struct {
	appointments  repository.AppointmentRepository
	patients      repository.PatientRepository
	dentists      repository.DentistRepository
	organizations repository.OrganizationRepository
	notifier      notifier.Notifier
	broker        messaging.Broker
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	dentists repository.DentistRepository,
	organizations repository.OrganizationRepository,
	n notifier.Notifier,
	broker messaging.Broker,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments:  appointments,
		patients:      patients,
		dentists:      dentists,
		organizations: organizations,
		notifier:      n,
		broker:        broker,
		metrics:       m,
		now:           time.Now,
	}
}

// tomorrowWindow returns the local calendar day after now as [start, end).
func (s *Service) tomorrowWindow() (time.Time, time.Time) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return start, start.AddDate(0, 0, 1)
}

// PendingReminders lists tomorrow's appointments that still need a
// reminder, for review before dispatching.
func (s *Service) PendingReminders(ctx context.Context, orgID uuid.UUID) ([]*model.Appointment, error) {
	dayStart, dayEnd := s.tomorrowWindow()
	appointments, err := s.appointments.ListDueReminders(ctx, orgID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// DispatchReminders sends a reminder for each of tomorrow's un-reminded
// active appointments. Transport failures are recorded per appointment;
// the batch never fails as a whole and nothing is retried automatically.
// reminder_sent flips only on transport success, so re-running the batch
// is idempotent.
func (s *Service) DispatchReminders(ctx context.Context, orgID uuid.UUID) (*DispatchSummary, error) {
	timer := time.Now()
	defer func() {
		s.metrics.DispatchDuration.Observe(time.Since(timer).Seconds())
	}()

	org, err := s.organizations.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := s.tomorrowWindow()
	due, err := s.appointments.ListDueReminders(ctx, orgID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	summary := &DispatchSummary{Results: make([]DispatchResult, 0, len(due))}

	for _, apt := range due {
		result := s.dispatchOne(ctx, org, apt)
		if result.Success {
			summary.TotalSent++
		} else {
			summary.TotalFailed++
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (s *Service) dispatchOne(ctx context.Context, org *model.Organization, apt *model.Appointment) DispatchResult {
	result := DispatchResult{AppointmentID: apt.ID}

	patient, err := s.patients.Get(ctx, org.ID, apt.PatientID)
	if err != nil {
		result.Error = "patient lookup failed"
		s.metrics.RemindersFailed.Inc()
		return result
	}
	result.PatientName = patient.Name
	result.Phone = patient.Phone

	dentistName := "Doctor"
	if dentist, err := s.dentists.Get(ctx, org.ID, apt.DentistID); err == nil {
		dentistName = dentist.Name
	}

	message := BuildMessage(patient.Name, apt.StartTime, dentistName, org.Name)

	sent := s.notifier.Send(ctx, patient.Phone, message)
	result.Success = sent.Success
	result.MessageID = sent.MessageID
	result.Error = sent.Error

	if !sent.Success {
		s.metrics.RemindersFailed.Inc()
		return result
	}

	if err := s.appointments.MarkReminderSent(ctx, org.ID, apt.ID); err != nil {
		// The message went out; an un-flipped flag means at worst one
		// duplicate reminder on the next run.
		log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("failed to mark reminder sent")
	}

	s.metrics.RemindersSent.Inc()
	s.publish(ctx, org.ID, messaging.EventReminderSent, apt)

	return result
}

// HandleInboundMessage applies a patient's reply to their earliest
// upcoming SCHEDULED appointment. Every outcome, including total failure,
// is reported as success to the transport caller; delivery providers
// resend on anything else. Errors are only observable in logs.
func (s *Service) HandleInboundMessage(ctx context.Context, fromPhone, body string) {
	phone := normalizePhone(fromPhone)
	reply := strings.ToUpper(strings.TrimSpace(body))

	patient, err := s.patients.FindByPhone(ctx, phone)
	if err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("inbound message: patient lookup failed")
		return
	}
	if patient == nil {
		log.Info().Str("phone", phone).Msg("inbound message: no patient matches phone")
		return
	}

	now := s.now()
	apt, err := s.appointments.NextScheduledForPatient(ctx, patient.OrganizationID, patient.ID, now, now.Add(replyWindow))
	if err != nil {
		log.Error().Err(err).Str("patient_id", patient.ID.String()).Msg("inbound message: appointment lookup failed")
		return
	}
	if apt == nil {
		log.Info().Str("patient_id", patient.ID.String()).Msg("inbound message: no upcoming scheduled appointment")
		return
	}

	switch {
	case containsAny(reply, affirmativeKeywords):
		confirmedAt := now
		if err := s.appointments.SetStatus(ctx, patient.OrganizationID, apt.ID, model.AppointmentStatusConfirmed, &confirmedAt); err != nil {
			log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("inbound message: failed to confirm appointment")
			return
		}
		s.metrics.RepliesConfirmed.Inc()
		s.publish(ctx, patient.OrganizationID, messaging.EventReplyReceived, apt)
		log.Info().Str("appointment_id", apt.ID.String()).Msg("appointment confirmed by patient reply")

	case containsAny(reply, negativeKeywords):
		if err := s.appointments.SetStatus(ctx, patient.OrganizationID, apt.ID, model.AppointmentStatusCancelled, nil); err != nil {
			log.Error().Err(err).Str("appointment_id", apt.ID.String()).Msg("inbound message: failed to cancel appointment")
			return
		}
		s.metrics.RepliesCancelled.Inc()
		s.publish(ctx, patient.OrganizationID, messaging.EventReplyReceived, apt)
		log.Info().Str("appointment_id", apt.ID.String()).Msg("appointment cancelled by patient reply")

	default:
		s.metrics.RepliesUnrecognized.Inc()
		log.Info().Str("patient_id", patient.ID.String()).Msg("inbound message: unrecognized reply, no action")
	}
}

// normalizePhone strips transport prefixes so the number matches the
// stored patient phone.
func normalizePhone(phone string) string {
	return strings.TrimSpace(strings.TrimPrefix(phone, "whatsapp:"))
}

// containsAny mirrors the keyword matching patients actually rely on:
// substring containment, affirmatives checked before negatives.
func containsAny(body string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

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
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish reminder event")
	}
}
