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

const dentistColumns = `id, organization_id, name, email, status, created_at, updated_at`

func (r *dentistRepository) Create(ctx context.Context, dentist *model.Dentist) error {
	query := `
		INSERT INTO dentists (id, organization_id, name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	dentist.CreatedAt = now
	dentist.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		dentist.ID,
		dentist.OrganizationID,
		dentist.Name,
		dentist.Email,
		dentist.Status,
		dentist.CreatedAt,
		dentist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dentist: %w", err)
	}
	return nil
}

func (r *dentistRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Dentist, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentists WHERE organization_id = $1 AND id = $2`

	var dentist model.Dentist
	err := r.db.GetContext(ctx, &dentist, query, orgID, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("dentist", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dentist: %w", err)
	}
	return &dentist, nil
}

func (r *dentistRepository) Update(ctx context.Context, dentist *model.Dentist) error {
	query := `
		UPDATE dentists
		SET name = $1, email = $2, status = $3, updated_at = $4
		WHERE organization_id = $5 AND id = $6
	`
	dentist.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		dentist.Name,
		dentist.Email,
		dentist.Status,
		dentist.UpdatedAt,
		dentist.OrganizationID,
		dentist.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dentist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("dentist", nil)
	}
	return nil
}

func (r *dentistRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM dentists WHERE organization_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete dentist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("dentist", nil)
	}
	return nil
}

func (r *dentistRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.Dentist, error) {
	query := `SELECT ` + dentistColumns + ` FROM dentists WHERE organization_id = $1 ORDER BY name ASC`

	var dentists []*model.Dentist
	err := r.db.SelectContext(ctx, &dentists, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}
	return dentists, nil
}
