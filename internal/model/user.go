package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDentist      Role = "DENTIST"
	RoleReceptionist Role = "RECEPTIONIST"
)

// User is a staff account. Role gating is enforced at the handler layer,
// not inside the scheduling core.
type User struct {
	Base
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Email          string    `db:"email" json:"email"`
	Name           string    `db:"name" json:"name"`
	Role           Role      `db:"role" json:"role"`
	PasswordHash   string    `db:"password_hash" json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
