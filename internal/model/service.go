package model

import (
	"github.com/google/uuid"
)

// Service is a catalog entry (e.g. "Limpieza Dental"). Its duration
// supplies the default appointment length when the caller omits one.
type Service struct {
	Base
	OrganizationID  uuid.UUID `db:"organization_id" json:"organization_id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Price           *float64  `db:"price" json:"price,omitempty"`
}

type CreateServiceRequest struct {
	Name            string   `json:"name" binding:"required,max=200"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,min=15,max=240"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=200"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
}
