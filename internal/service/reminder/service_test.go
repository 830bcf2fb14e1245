package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilesync/booking-api/internal/model"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
	"github.com/smilesync/booking-api/pkg/metrics"
	"github.com/smilesync/booking-api/pkg/notifier"
)

var testMetrics = metrics.NewMetrics("reminder_test")

type memAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *memAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.appointments[apt.ID] = apt
	return nil
}

func (r *memAppointmentRepo) Get(_ context.Context, orgID, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok || apt.OrganizationID != orgID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

func (r *memAppointmentRepo) UpdateSlot(_ context.Context, apt *model.Appointment) error {
	r.appointments[apt.ID] = apt
	return nil
}

func (r *memAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	r.appointments[apt.ID] = apt
	return nil
}

func (r *memAppointmentRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.appointments, id)
	return nil
}

func (r *memAppointmentRepo) List(context.Context, uuid.UUID, *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *memAppointmentRepo) ListActiveByDentist(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *memAppointmentRepo) ListCalendarEntries(context.Context, uuid.UUID, *uuid.UUID, time.Time, time.Time) ([]model.CalendarEntry, error) {
	return nil, nil
}

func (r *memAppointmentRepo) ListDueReminders(_ context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if apt.OrganizationID != orgID || apt.ReminderSent || !apt.Status.IsActive() {
			continue
		}
		if !apt.StartTime.Before(dayStart) && apt.StartTime.Before(dayEnd) {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) MarkReminderSent(_ context.Context, orgID, id uuid.UUID) error {
	apt, ok := r.appointments[id]
	if !ok || apt.OrganizationID != orgID {
		return apperrors.NotFound("appointment", nil)
	}
	apt.ReminderSent = true
	return nil
}

func (r *memAppointmentRepo) NextScheduledForPatient(_ context.Context, orgID, patientID uuid.UUID, from, to time.Time) (*model.Appointment, error) {
	var next *model.Appointment
	for _, apt := range r.appointments {
		if apt.OrganizationID != orgID || apt.PatientID != patientID {
			continue
		}
		if apt.Status != model.AppointmentStatusScheduled {
			continue
		}
		if apt.StartTime.Before(from) || !apt.StartTime.Before(to) {
			continue
		}
		if next == nil || apt.StartTime.Before(next.StartTime) {
			next = apt
		}
	}
	return next, nil
}

func (r *memAppointmentRepo) SetStatus(_ context.Context, orgID, id uuid.UUID, status model.AppointmentStatus, confirmedAt *time.Time) error {
	apt, ok := r.appointments[id]
	if !ok || apt.OrganizationID != orgID {
		return apperrors.NotFound("appointment", nil)
	}
	apt.Status = status
	if confirmedAt != nil {
		apt.ConfirmedAt = confirmedAt
	}
	return nil
}

type memPatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *memPatientRepo) Create(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *memPatientRepo) Get(_ context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.OrganizationID != orgID {
		return nil, apperrors.NotFound("patient", nil)
	}
	return p, nil
}

func (r *memPatientRepo) Update(_ context.Context, p *model.Patient) error { return nil }
func (r *memPatientRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (r *memPatientRepo) List(context.Context, uuid.UUID) ([]*model.Patient, error) {
	return nil, nil
}

func (r *memPatientRepo) GetByPhone(_ context.Context, orgID uuid.UUID, phone string) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.OrganizationID == orgID && p.Phone == phone {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (r *memPatientRepo) FindByPhone(_ context.Context, phone string) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.Phone == phone {
			return p, nil
		}
	}
	return nil, nil
}

type memDentistRepo struct {
	dentists map[uuid.UUID]*model.Dentist
}

func newMemDentistRepo() *memDentistRepo {
	return &memDentistRepo{dentists: make(map[uuid.UUID]*model.Dentist)}
}

func (r *memDentistRepo) Create(_ context.Context, d *model.Dentist) error {
	r.dentists[d.ID] = d
	return nil
}

func (r *memDentistRepo) Get(_ context.Context, orgID, id uuid.UUID) (*model.Dentist, error) {
	d, ok := r.dentists[id]
	if !ok || d.OrganizationID != orgID {
		return nil, apperrors.NotFound("dentist", nil)
	}
	return d, nil
}

func (r *memDentistRepo) Update(context.Context, *model.Dentist) error { return nil }
func (r *memDentistRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (r *memDentistRepo) List(context.Context, uuid.UUID) ([]*model.Dentist, error) {
	return nil, nil
}

type memOrganizationRepo struct {
	organizations map[uuid.UUID]*model.Organization
}

func newMemOrganizationRepo() *memOrganizationRepo {
	return &memOrganizationRepo{organizations: make(map[uuid.UUID]*model.Organization)}
}

func (r *memOrganizationRepo) Get(_ context.Context, id uuid.UUID) (*model.Organization, error) {
	org, ok := r.organizations[id]
	if !ok {
		return nil, apperrors.NotFound("organization", nil)
	}
	return org, nil
}

func (r *memOrganizationRepo) List(context.Context) ([]*model.Organization, error) {
	var out []*model.Organization
	for _, org := range r.organizations {
		out = append(out, org)
	}
	return out, nil
}

// recordingNotifier captures sent messages and can be told to fail.
type recordingNotifier struct {
	sent []string
	fail bool
}

func (n *recordingNotifier) Send(_ context.Context, phone, message string) notifier.SendResult {
	if n.fail {
		return notifier.SendResult{Success: false, Error: "gateway unreachable"}
	}
	n.sent = append(n.sent, phone)
	return notifier.SendResult{Success: true, MessageID: "SM" + phone}
}

type reminderFixture struct {
	service      *Service
	appointments *memAppointmentRepo
	notifier     *recordingNotifier
	orgID        uuid.UUID
	patientID    uuid.UUID
	dentistID    uuid.UUID
	now          time.Time
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	now := time.Date(2026, 9, 14, 12, 0, 0, 0, time.UTC)
	orgID := uuid.New()

	orgs := newMemOrganizationRepo()
	orgs.organizations[orgID] = &model.Organization{
		Base: model.Base{ID: orgID},
		Name: "Clinica Sonrisa",
	}

	patients := newMemPatientRepo()
	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgID,
		Name:           "Maria Lopez",
		Phone:          "+5215512345678",
	}
	require.NoError(t, patients.Create(context.Background(), patient))

	dentists := newMemDentistRepo()
	dentist := &model.Dentist{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: orgID,
		Name:           "Ana Ruiz",
	}
	require.NoError(t, dentists.Create(context.Background(), dentist))

	appointments := newMemAppointmentRepo()
	sender := &recordingNotifier{}

	svc := NewService(appointments, patients, dentists, orgs, sender, nil, testMetrics)
	svc.now = func() time.Time { return now }

	return &reminderFixture{
		service:      svc,
		appointments: appointments,
		notifier:     sender,
		orgID:        orgID,
		patientID:    patient.ID,
		dentistID:    dentist.ID,
		now:          now,
	}
}

func (f *reminderFixture) addAppointment(t *testing.T, start time.Time, status model.AppointmentStatus) *model.Appointment {
	t.Helper()
	apt := &model.Appointment{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: f.orgID,
		DentistID:      f.dentistID,
		PatientID:      f.patientID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         status,
	}
	require.NoError(t, f.appointments.Create(context.Background(), apt))
	return apt
}

func (f *reminderFixture) tomorrow(hour int) time.Time {
	return time.Date(2026, 9, 15, hour, 0, 0, 0, time.UTC)
}

func TestDispatchRemindersSendsForTomorrow(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	// Today and the day after tomorrow are out of scope.
	f.addAppointment(t, f.now.Add(2*time.Hour), model.AppointmentStatusScheduled)
	f.addAppointment(t, f.tomorrow(10).AddDate(0, 0, 1), model.AppointmentStatusScheduled)

	summary, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalSent)
	assert.Equal(t, 0, summary.TotalFailed)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, apt.ID, summary.Results[0].AppointmentID)
	assert.Equal(t, "+5215512345678", summary.Results[0].Phone)
	assert.True(t, f.appointments.appointments[apt.ID].ReminderSent)
}

func TestDispatchRemindersIsIdempotent(t *testing.T) {
	f := newReminderFixture(t)
	f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	first, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalSent)

	second, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalSent)
	assert.Len(t, f.notifier.sent, 1)
}

func TestDispatchRemindersSkipsInactive(t *testing.T) {
	f := newReminderFixture(t)
	f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusCancelled)
	f.addAppointment(t, f.tomorrow(11), model.AppointmentStatusCompleted)

	summary, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}

func TestDispatchRemindersTransportFailureLeavesFlagUnset(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)
	f.notifier.fail = true

	summary, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalFailed)
	assert.False(t, f.appointments.appointments[apt.ID].ReminderSent)

	// The next run retries the failed appointment.
	f.notifier.fail = false
	retry, err := f.service.DispatchReminders(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, retry.TotalSent)
}

func TestPendingReminders(t *testing.T) {
	f := newReminderFixture(t)
	f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)
	sent := f.addAppointment(t, f.tomorrow(11), model.AppointmentStatusConfirmed)
	sent.ReminderSent = true

	pending, err := f.service.PendingReminders(context.Background(), f.orgID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestInboundMessageConfirms(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "+5215512345678", "SI")

	stored := f.appointments.appointments[apt.ID]
	assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, f.now, *stored.ConfirmedAt)
}

func TestInboundMessageConfirmKeywordVariants(t *testing.T) {
	for _, body := range []string{"si", " Si ", "YES", "confirmo", "Si, ahi estare"} {
		t.Run(body, func(t *testing.T) {
			f := newReminderFixture(t)
			apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

			f.service.HandleInboundMessage(context.Background(), "+5215512345678", body)

			assert.Equal(t, model.AppointmentStatusConfirmed, f.appointments.appointments[apt.ID].Status)
		})
	}
}

func TestInboundMessageCancels(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "+5215512345678", "NO")

	stored := f.appointments.appointments[apt.ID]
	assert.Equal(t, model.AppointmentStatusCancelled, stored.Status)
	assert.Nil(t, stored.ConfirmedAt)
}

func TestInboundMessageUnrecognizedIsNoOp(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "+5215512345678", "gracias")

	assert.Equal(t, model.AppointmentStatusScheduled, f.appointments.appointments[apt.ID].Status)
}

func TestInboundMessageStripsWhatsAppPrefix(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "whatsapp:+5215512345678", "SI")

	assert.Equal(t, model.AppointmentStatusConfirmed, f.appointments.appointments[apt.ID].Status)
}

func TestInboundMessageUnknownPhoneIsNoOp(t *testing.T) {
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "+10000000000", "SI")

	assert.Equal(t, model.AppointmentStatusScheduled, f.appointments.appointments[apt.ID].Status)
}

func TestInboundMessageTargetsEarliestScheduled(t *testing.T) {
	f := newReminderFixture(t)
	later := f.addAppointment(t, f.tomorrow(15), model.AppointmentStatusScheduled)
	earlier := f.addAppointment(t, f.tomorrow(9), model.AppointmentStatusScheduled)

	f.service.HandleInboundMessage(context.Background(), "+5215512345678", "SI")

	assert.Equal(t, model.AppointmentStatusConfirmed, f.appointments.appointments[earlier.ID].Status)
	assert.Equal(t, model.AppointmentStatusScheduled, f.appointments.appointments[later.ID].Status)
}

func TestInboundMessageIgnoresConfirmedAppointments(t *testing.T) {
	// Only SCHEDULED appointments accept replies; an already-confirmed
	// one stays untouched.
	f := newReminderFixture(t)
	apt := f.addAppointment(t, f.tomorrow(10), model.AppointmentStatusConfirmed)

	f.service.HandleInboundMessage(context.Background(), "+5215512345678", "NO")

	assert.Equal(t, model.AppointmentStatusConfirmed, f.appointments.appointments[apt.ID].Status)
}

func TestBuildMessage(t *testing.T) {
	start := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC) // a Tuesday

	msg := BuildMessage("Maria Lopez", start, "Ana Ruiz", "Clinica Sonrisa")

	assert.Contains(t, msg, "Hola Maria Lopez!")
	assert.Contains(t, msg, "martes, 15 de septiembre de 2026")
	assert.Contains(t, msg, "Hora: 10:30")
	assert.Contains(t, msg, "Dr. Ana Ruiz")
	assert.Contains(t, msg, "Clinica Sonrisa")
	assert.Contains(t, msg, `"SI" para confirmar`)
	assert.Contains(t, msg, `"NO" para cancelar`)
}
