package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/smilesync/booking-api/internal/model"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
)

func (r *organizationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	var org model.Organization
	err := r.db.GetContext(ctx, &org, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("organization", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]*model.Organization, error) {
	query := `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM organizations
		ORDER BY name ASC
	`
	var orgs []*model.Organization
	err := r.db.SelectContext(ctx, &orgs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}
