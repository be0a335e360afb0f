package domain

import (
	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Identity is the verified, tenant-agnostic representation of a calling user.
// It never carries organization data; the same identity is valid across
// organization switches.
type Identity struct {
	ID          UserID
	Email       string
	DisplayName string
	Active      bool
}
