package cache

import (
	"context"
	"time"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
)

// IdentityCache memoizes identity lookups keyed by user id. A deactivated
// user may still be served from a stale entry for up to the TTL; this
// bounded staleness is an accepted tradeoff, and the identity collaborator
// is expected to invalidate on deactivation or email change.
type IdentityCache struct {
	store *Store[domain.UserID, *domain.Identity]
}

// NewIdentityCache creates an identity cache with the given absolute TTL and
// idle refresh window.
func NewIdentityCache(ttl, refresh time.Duration) *IdentityCache {
	return &IdentityCache{store: New[domain.UserID, *domain.Identity]("identity", ttl, refresh)}
}

func (c *IdentityCache) Get(ctx context.Context, userID domain.UserID, loader func(context.Context, domain.UserID) (*domain.Identity, error)) (*domain.Identity, error) {
	return c.store.Get(ctx, userID, loader)
}

func (c *IdentityCache) Invalidate(userID domain.UserID) {
	c.store.Invalidate(userID)
}

// MembershipCache memoizes membership list lookups keyed by user id, under
// the same policy and invalidation triggers as IdentityCache.
type MembershipCache struct {
	store *Store[domain.UserID, []*domain.Membership]
}

// NewMembershipCache creates a membership cache with the given absolute TTL
// and idle refresh window.
func NewMembershipCache(ttl, refresh time.Duration) *MembershipCache {
	return &MembershipCache{store: New[domain.UserID, []*domain.Membership]("membership", ttl, refresh)}
}

func (c *MembershipCache) Get(ctx context.Context, userID domain.UserID, loader func(context.Context, domain.UserID) ([]*domain.Membership, error)) ([]*domain.Membership, error) {
	return c.store.Get(ctx, userID, loader)
}

func (c *MembershipCache) Invalidate(userID domain.UserID) {
	c.store.Invalidate(userID)
}

var (
	_ ports.IdentityCache   = (*IdentityCache)(nil)
	_ ports.MembershipCache = (*MembershipCache)(nil)
)
