package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// IsActive reports whether the status participates in conflict checks.
// Only SCHEDULED and CONFIRMED appointments can block a dentist's time.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

// IsTerminal reports whether the status accepts no further transitions.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case AppointmentStatusCancelled, AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	Base
	OrganizationID uuid.UUID         `db:"organization_id" json:"organization_id"`
	DentistID      uuid.UUID         `db:"dentist_id" json:"dentist_id"`
	PatientID      uuid.UUID         `db:"patient_id" json:"patient_id"`
	ServiceID      *uuid.UUID        `db:"service_id" json:"service_id,omitempty"`
	StartTime      time.Time         `db:"start_time" json:"start_time"`
	EndTime        time.Time         `db:"end_time" json:"end_time"`
	Status         AppointmentStatus `db:"status" json:"status"`
	Notes          string            `db:"notes" json:"notes,omitempty"`
	ReminderSent   bool              `db:"reminder_sent" json:"reminder_sent"`
	ConfirmedAt    *time.Time        `db:"confirmed_at" json:"confirmed_at,omitempty"`
}

// Duration returns the appointment length. Moves preserve it.
func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" binding:"required"`
	DentistID       uuid.UUID  `json:"dentist_id" binding:"required"`
	ServiceID       *uuid.UUID `json:"service_id"`
	StartTime       time.Time  `json:"start_time" binding:"required,slotaligned"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

type MoveAppointmentRequest struct {
	NewStartTime time.Time  `json:"new_start_time" binding:"required,slotaligned"`
	NewDentistID *uuid.UUID `json:"new_dentist_id"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time         `json:"start_time" binding:"omitempty,slotaligned"`
	DentistID *uuid.UUID         `json:"dentist_id"`
	ServiceID *uuid.UUID         `json:"service_id"`
	Status    *AppointmentStatus `json:"status"`
	Notes     *string            `json:"notes"`
}

type AppointmentFilters struct {
	DentistID uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
