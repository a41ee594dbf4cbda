package domain

import "time"

// UserRole enumerates caller roles, ordered from least to most privileged.
type UserRole string

const (
	RoleClient     UserRole = "CLIENT"
	RoleTech       UserRole = "TECH"
	RoleSupervisor UserRole = "SUPERVISOR"
	RoleAdmin      UserRole = "ADMIN"
)

// Staff reports whether the role may operate on tickets beyond commenting.
func (r UserRole) Staff() bool {
	return r == RoleTech || r == RoleSupervisor || r == RoleAdmin
}

// Elevated reports whether the role bypasses assignee exclusivity.
func (r UserRole) Elevated() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// User is the domain model for everyone who interacts with tickets:
// requesters (clients) and staff (techs, supervisors, admins).
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
