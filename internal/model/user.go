package model

import "time"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"

	// AdminCompany is the company name that grants administrator rights.
	AdminCompany = "BileMo"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email" validate:"required,email,max=180"`
	PasswordHash string    `db:"password" json:"-"`
	Roles        []string  `db:"roles" json:"roles"`
	Company      string    `db:"company" json:"company" validate:"max=255"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RolesForCompany derives the role set of a new account from its company.
func RolesForCompany(company string) []string {
	if company == AdminCompany {
		return []string{RoleAdmin}
	}
	return []string{RoleUser}
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
