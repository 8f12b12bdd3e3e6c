package domain

import "time"

// UserRole enumerates persisted account roles.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTechnician UserRole = "technician"
	RoleUser       UserRole = "user"
)

// Valid reports whether the role is one of the persisted values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleUser:
		return true
	}
	return false
}

// User is the domain model for every account that can log in.
// Accounts are never hard-deleted; Status=false disables login.
type User struct {
	ID           int64
	Name         string
	Email        string
	ContactNo    *string
	PasswordHash string
	Status       bool
	Role         UserRole
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
