package model

import (
	"github.com/google/uuid"
)

type Patient struct {
	Base
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email,omitempty"`
	Notes          string    `db:"notes" json:"notes,omitempty"`
}

type CreatePatientRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"required,e164"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes" binding:"max=2000"`
}

type UpdatePatientRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=200"`
	Phone *string `json:"phone" binding:"omitempty,e164"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}
