package model

import (
	"github.com/google/uuid"
)

type DentistStatus string

const (
	DentistStatusActive   DentistStatus = "active"
	DentistStatusInactive DentistStatus = "inactive"
)

// Dentist is the schedulable resource. Every conflict check is scoped to
// one dentist within one organization.
type Dentist struct {
	Base
	OrganizationID uuid.UUID     `db:"organization_id" json:"organization_id"`
	Name           string        `db:"name" json:"name"`
	Email          string        `db:"email" json:"email,omitempty"`
	Status         DentistStatus `db:"status" json:"status"`
}

type CreateDentistRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
}

type UpdateDentistRequest struct {
	Name   *string        `json:"name" binding:"omitempty,max=200"`
	Email  *string        `json:"email" binding:"omitempty,email"`
	Status *DentistStatus `json:"status"`
}
