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

const patientColumns = `id, organization_id, name, phone, email, notes, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, organization_id, name, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.OrganizationID,
		patient.Name,
		patient.Phone,
		patient.Email,
		patient.Notes,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE organization_id = $1 AND id = $2`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, orgID, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, phone = $2, email = $3, notes = $4, updated_at = $5
		WHERE organization_id = $6 AND id = $7
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Phone,
		patient.Email,
		patient.Notes,
		patient.UpdatedAt,
		patient.OrganizationID,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE organization_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE organization_id = $1 ORDER BY name ASC`

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) GetByPhone(ctx context.Context, orgID uuid.UUID, phone string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE organization_id = $1 AND phone = $2`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, orgID, phone)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by phone: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) FindByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE phone = $1 ORDER BY created_at ASC LIMIT 1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find patient by phone: %w", err)
	}
	return &patient, nil
}
