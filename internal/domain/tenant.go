package domain

// TenantContext is the per-request result of resolving an organization for an
// already-verified identity. It is constructed fresh on every tenant-scoped
// request and must never be held across requests or persisted.
type TenantContext struct {
	OrganizationID OrganizationID
	Role           Role
	Capabilities   CapabilitySet
}
