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

const serviceColumns = `id, organization_id, name, duration_minutes, price, created_at, updated_at`

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (id, organization_id, name, duration_minutes, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		service.ID,
		service.OrganizationID,
		service.Name,
		service.DurationMinutes,
		service.Price,
		service.CreatedAt,
		service.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE organization_id = $1 AND id = $2`

	var service model.Service
	err := r.db.GetContext(ctx, &service, query, orgID, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, duration_minutes = $2, price = $3, updated_at = $4
		WHERE organization_id = $5 AND id = $6
	`
	service.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		service.Name,
		service.DurationMinutes,
		service.Price,
		service.UpdatedAt,
		service.OrganizationID,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("service", nil)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM services WHERE organization_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("service", nil)
	}
	return nil
}

func (r *serviceRepository) List(ctx context.Context, orgID uuid.UUID) ([]*model.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE organization_id = $1 ORDER BY name ASC`

	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
