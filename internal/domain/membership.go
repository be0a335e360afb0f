package domain

import (
	"time"
)

// Role is a member's role within one organization.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
	RoleReadOnly Role = "readonly"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleReadOnly:
		return true
	}
	return false
}

// Membership links a user to an organization with a role. There is at most
// one membership per (user, organization) pair; uniqueness is enforced by the
// write side. Memberships are soft-deactivated, never hard-deleted.
type Membership struct {
	UserID               UserID
	OrganizationID       OrganizationID
	Role                 Role
	Active               bool
	InvitedBy            *UserID
	InvitationAcceptedAt *time.Time
}
