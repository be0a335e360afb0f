package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

// Resolver combines a verified identity with a requested organization id and
// the membership read path to produce a tenant context, or fails closed. It
// is the only component that consults the membership store for this decision.
type Resolver struct {
	cache ports.MembershipCache
	store ports.MembershipStore
}

// NewResolver creates a tenant resolver reading memberships cache-then-store.
func NewResolver(cache ports.MembershipCache, store ports.MembershipStore) *Resolver {
	return &Resolver{cache: cache, store: store}
}

// Resolve returns the tenant context for identity acting within the
// organization named by rawOrgID. There is no default-organization fallback:
// every tenant-scoped request must name its organization explicitly.
//
// Failure modes, all 403 externally, distinct for logs and tests:
// missing or malformed id, no membership, inactive membership.
func (r *Resolver) Resolve(ctx context.Context, identity *domain.Identity, rawOrgID string) (*domain.TenantContext, error) {
	// A tenant context must never be constructed without a verified identity.
	if identity == nil {
		return nil, domerrors.ErrIdentityNotFound
	}
	if rawOrgID == "" {
		return nil, domerrors.ErrMissingOrInvalidOrgHeader
	}
	parsed, err := uuid.Parse(rawOrgID)
	if err != nil {
		return nil, domerrors.ErrMissingOrInvalidOrgHeader
	}
	orgID := domain.NewOrganizationID(parsed)

	memberships, err := r.cache.Get(ctx, identity.ID, r.store.LoadMembershipsForUser)
	if err != nil {
		// Store/timeout failures surface as internal errors, never as a
		// tenant denial.
		return nil, err
	}

	var membership *domain.Membership
	for _, m := range memberships {
		if m.OrganizationID == orgID {
			membership = m
			break
		}
	}
	if membership == nil {
		return nil, domerrors.ErrNotAMember
	}
	if !membership.Active {
		return nil, domerrors.ErrMembershipInactive
	}

	return &domain.TenantContext{
		OrganizationID: orgID,
		Role:           membership.Role,
		Capabilities:   domain.MembershipCapabilities(membership),
	}, nil
}
