package model

// Organization is the tenant boundary. All lookups, uniqueness checks and
// mutations are scoped to exactly one organization.
type Organization struct {
	Base
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
}
