package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
)

const appointmentColumns = `
	id, organization_id, dentist_id, patient_id, service_id,
	start_time, end_time, status, notes, reminder_sent, confirmed_at,
	created_at, updated_at
`

// conflictExistsQuery implements the half-open overlap test: an existing
// active appointment e conflicts with [start, end) iff
// e.start_time < end AND e.end_time > start. Touching endpoints pass.
const conflictExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM appointments
		WHERE organization_id = $1
		AND dentist_id = $2
		AND status IN ('SCHEDULED', 'CONFIRMED')
		AND start_time < $3
		AND end_time > $4
		AND id != $5
	)
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	// Serializable isolation makes the check-then-insert atomic: two
	// concurrent bookings for the same dentist and overlapping interval
	// cannot both commit.
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var hasConflict bool
	err = tx.GetContext(ctx, &hasConflict, conflictExistsQuery,
		appointment.OrganizationID,
		appointment.DentistID,
		appointment.EndTime,
		appointment.StartTime,
		uuid.Nil,
	)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if hasConflict {
		return apperrors.Conflict("time slot already booked", nil)
	}

	query := `
		INSERT INTO appointments (
			id, organization_id, dentist_id, patient_id, service_id,
			start_time, end_time, status, notes, reminder_sent,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = tx.ExecContext(ctx, query,
		appointment.ID,
		appointment.OrganizationID,
		appointment.DentistID,
		appointment.PatientID,
		appointment.ServiceID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
		appointment.ReminderSent,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1 AND id = $2
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, orgID, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// UpdateSlot rewrites start/end/dentist under the same serializable guard
// as Create, excluding the moved appointment from its own conflict check.
func (r *appointmentRepository) UpdateSlot(ctx context.Context, appointment *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var hasConflict bool
	err = tx.GetContext(ctx, &hasConflict, conflictExistsQuery,
		appointment.OrganizationID,
		appointment.DentistID,
		appointment.EndTime,
		appointment.StartTime,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if hasConflict {
		return apperrors.Conflict("time slot already booked", nil)
	}

	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, dentist_id = $3, updated_at = $4
		WHERE organization_id = $5 AND id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.DentistID,
		appointment.UpdatedAt,
		appointment.OrganizationID,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to move appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit move: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET service_id = $1, status = $2, notes = $3, confirmed_at = $4, updated_at = $5
		WHERE organization_id = $6 AND id = $7
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ServiceID,
		appointment.Status,
		appointment.Notes,
		appointment.ConfirmedAt,
		appointment.UpdatedAt,
		appointment.OrganizationID,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE organization_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, orgID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
	`
	args := []interface{}{orgID}
	argCount := 2

	if filters != nil {
		if filters.DentistID != uuid.Nil {
			query += fmt.Sprintf(" AND dentist_id = $%d", argCount)
			args = append(args, filters.DentistID)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND start_time >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND start_time < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListActiveByDentist(ctx context.Context, orgID, dentistID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
		AND dentist_id = $2
		AND status IN ('SCHEDULED', 'CONFIRMED')
		AND start_time < $3
		AND end_time > $4
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, orgID, dentistID, to, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list active appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListCalendarEntries(ctx context.Context, orgID uuid.UUID, dentistID *uuid.UUID, from, to time.Time) ([]model.CalendarEntry, error) {
	query := `
		SELECT
			a.id, a.organization_id, a.dentist_id, a.patient_id, a.service_id,
			a.start_time, a.end_time, a.status, a.notes,
			p.name AS patient_name, p.phone AS patient_phone, p.email AS patient_email,
			d.name AS dentist_name,
			s.name AS service_name, s.duration_minutes AS service_duration, s.price AS service_price
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id AND p.organization_id = a.organization_id
		JOIN dentists d ON d.id = a.dentist_id AND d.organization_id = a.organization_id
		LEFT JOIN services s ON s.id = a.service_id AND s.organization_id = a.organization_id
		WHERE a.organization_id = $1
		AND a.start_time < $2
		AND a.end_time > $3
	`
	args := []interface{}{orgID, to, from}

	if dentistID != nil {
		query += " AND a.dentist_id = $4"
		args = append(args, *dentistID)
	}

	query += " ORDER BY a.start_time ASC"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar entries: %w", err)
	}
	defer rows.Close()

	var entries []model.CalendarEntry
	for rows.Next() {
		var row struct {
			ID              uuid.UUID               `db:"id"`
			OrganizationID  uuid.UUID               `db:"organization_id"`
			DentistID       uuid.UUID               `db:"dentist_id"`
			PatientID       uuid.UUID               `db:"patient_id"`
			ServiceID       *uuid.UUID              `db:"service_id"`
			StartTime       time.Time               `db:"start_time"`
			EndTime         time.Time               `db:"end_time"`
			Status          model.AppointmentStatus `db:"status"`
			Notes           string                  `db:"notes"`
			PatientName     string                  `db:"patient_name"`
			PatientPhone    string                  `db:"patient_phone"`
			PatientEmail    string                  `db:"patient_email"`
			DentistName     string                  `db:"dentist_name"`
			ServiceName     *string                 `db:"service_name"`
			ServiceDuration *int                    `db:"service_duration"`
			ServicePrice    *float64                `db:"service_price"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan calendar entry: %w", err)
		}

		entry := model.CalendarEntry{
			ID:        row.ID,
			Start:     row.StartTime,
			End:       row.EndTime,
			Status:    row.Status,
			Notes:     row.Notes,
			DentistID: row.DentistID,
			Patient: &model.Patient{
				Base:           model.Base{ID: row.PatientID},
				OrganizationID: row.OrganizationID,
				Name:           row.PatientName,
				Phone:          row.PatientPhone,
				Email:          row.PatientEmail,
			},
			Dentist: &model.Dentist{
				Base:           model.Base{ID: row.DentistID},
				OrganizationID: row.OrganizationID,
				Name:           row.DentistName,
			},
		}
		if row.ServiceID != nil && row.ServiceName != nil {
			svc := &model.Service{
				Base:           model.Base{ID: *row.ServiceID},
				OrganizationID: row.OrganizationID,
				Name:           *row.ServiceName,
				Price:          row.ServicePrice,
			}
			if row.ServiceDuration != nil {
				svc.DurationMinutes = *row.ServiceDuration
			}
			entry.Service = svc
			entry.Title = row.PatientName + " - " + *row.ServiceName
		} else {
			entry.Title = row.PatientName + " - Consulta"
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *appointmentRepository) ListDueReminders(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
		AND reminder_sent = false
		AND status IN ('SCHEDULED', 'CONFIRMED')
		AND start_time >= $2
		AND start_time < $3
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, orgID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) MarkReminderSent(ctx context.Context, orgID, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET reminder_sent = true, updated_at = $1
		WHERE organization_id = $2 AND id = $3
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), orgID, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

func (r *appointmentRepository) NextScheduledForPatient(ctx context.Context, orgID, patientID uuid.UUID, from, to time.Time) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE organization_id = $1
		AND patient_id = $2
		AND status = 'SCHEDULED'
		AND start_time >= $3
		AND start_time < $4
		ORDER BY start_time ASC
		LIMIT 1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, orgID, patientID, from, to)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find next scheduled appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) SetStatus(ctx context.Context, orgID, id uuid.UUID, status model.AppointmentStatus, confirmedAt *time.Time) error {
	query := `
		UPDATE appointments
		SET status = $1, confirmed_at = COALESCE($2, confirmed_at), updated_at = $3
		WHERE organization_id = $4 AND id = $5
	`
	result, err := r.db.ExecContext(ctx, query, status, confirmedAt, time.Now(), orgID, id)
	if err != nil {
		return fmt.Errorf("failed to set appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}
