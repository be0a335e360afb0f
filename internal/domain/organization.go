package domain

import (
	"github.com/google/uuid"
)

// OrganizationID is a value object for organization identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// String returns the canonical string form.
func (o OrganizationID) String() string { return o.UUID.String() }

// Organization is referenced, not owned, by the authorization core. Users
// belong via memberships.
type Organization struct {
	ID     OrganizationID
	Name   string
	Active bool
}
