package ports

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/domain"
)

// IdentityStore is the read path to the identity collaborator. Missing users
// return (nil, nil); this core performs no writes.
type IdentityStore interface {
	GetByID(ctx context.Context, userID domain.UserID) (*domain.Identity, error)
}

// MembershipStore is the read path for "which organizations does this user
// belong to, with which role, active or not". The write side owns uniqueness
// per (user, organization).
type MembershipStore interface {
	LoadMembershipsForUser(ctx context.Context, userID domain.UserID) ([]*domain.Membership, error)
	ListForOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Membership, error)
}

// TokenVerifier validates a bearer credential and extracts bare identity
// claims. Pure verification; no I/O.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// TokenClaims are the identity claims carried by a verified token. Tokens
// intentionally carry no tenant claims, so a token stays valid across
// organization switches.
type TokenClaims struct {
	UserID domain.UserID
	Email  string
}

// IdentityCache memoizes identity lookups keyed by user id with bounded
// staleness. Invalidate must be called whenever identity-affecting fields
// change.
type IdentityCache interface {
	Get(ctx context.Context, userID domain.UserID, loader func(context.Context, domain.UserID) (*domain.Identity, error)) (*domain.Identity, error)
	Invalidate(userID domain.UserID)
}

// MembershipCache memoizes membership lookups keyed by user id, under the
// same caching policy and invalidation triggers as IdentityCache.
type MembershipCache interface {
	Get(ctx context.Context, userID domain.UserID, loader func(context.Context, domain.UserID) ([]*domain.Membership, error)) ([]*domain.Membership, error)
	Invalidate(userID domain.UserID)
}
