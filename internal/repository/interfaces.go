package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
)

// All repository interfaces in one file. Every method that touches tenant
// data takes the organization id explicitly; nothing is addressable
// without it.
type (
	AppointmentRepository interface {
		// Create persists a new appointment. The write runs inside a
		// serializable transaction that re-checks dentist availability,
		// so two concurrent bookings for the same slot cannot both land.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Appointment, error)
		// UpdateSlot atomically rewrites start/end/dentist under the same
		// serializable conflict guard as Create, excluding the moved row.
		UpdateSlot(ctx context.Context, appointment *model.Appointment) error
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ListActiveByDentist(ctx context.Context, orgID, dentistID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		ListCalendarEntries(ctx context.Context, orgID uuid.UUID, dentistID *uuid.UUID, from, to time.Time) ([]model.CalendarEntry, error)
		ListDueReminders(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error)
		MarkReminderSent(ctx context.Context, orgID, id uuid.UUID) error
		NextScheduledForPatient(ctx context.Context, orgID, patientID uuid.UUID, from, to time.Time) (*model.Appointment, error)
		SetStatus(ctx context.Context, orgID, id uuid.UUID, status model.AppointmentStatus, confirmedAt *time.Time) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error)
		GetByPhone(ctx context.Context, orgID uuid.UUID, phone string) (*model.Patient, error)
		// FindByPhone searches across tenants. Used only by the inbound
		// webhook, which carries no tenant context; the matched row pins
		// the tenant for every subsequent query.
		FindByPhone(ctx context.Context, phone string) (*model.Patient, error)
	}

	DentistRepository interface {
		Create(ctx context.Context, dentist *model.Dentist) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Dentist, error)
		Update(ctx context.Context, dentist *model.Dentist) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID) ([]*model.Dentist, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, orgID, id uuid.UUID) error
		List(ctx context.Context, orgID uuid.UUID) ([]*model.Service, error)
	}

	OrganizationRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
		List(ctx context.Context) ([]*model.Organization, error)
	}

	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Get(ctx context.Context, orgID, id uuid.UUID) (*model.User, error)
	}
)
