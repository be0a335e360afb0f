package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/domain"
	domerrors "github.com/tenantgate/tenantgate/internal/domain/errors"
)

type fakeMembershipStore struct {
	memberships map[domain.UserID][]*domain.Membership
	err         error
	loadCalls   int
}

func (s *fakeMembershipStore) LoadMembershipsForUser(ctx context.Context, userID domain.UserID) ([]*domain.Membership, error) {
	s.loadCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.memberships[userID], nil
}

func (s *fakeMembershipStore) ListForOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Membership, error) {
	return nil, nil
}

// passthroughCache always invokes the loader, so resolver tests exercise the
// store path directly.
type passthroughCache struct{}

func (passthroughCache) Get(ctx context.Context, userID domain.UserID, loader func(context.Context, domain.UserID) ([]*domain.Membership, error)) ([]*domain.Membership, error) {
	return loader(ctx, userID)
}

func (passthroughCache) Invalidate(domain.UserID) {}

func testIdentity() *domain.Identity {
	return &domain.Identity{
		ID:     domain.NewUserID(uuid.New()),
		Email:  "user@example.com",
		Active: true,
	}
}

func TestResolveMissingHeader(t *testing.T) {
	r := NewResolver(passthroughCache{}, &fakeMembershipStore{})

	_, err := r.Resolve(context.Background(), testIdentity(), "")
	if !errors.Is(err, domerrors.ErrMissingOrInvalidOrgHeader) {
		t.Fatalf("expected ErrMissingOrInvalidOrgHeader, got %v", err)
	}
}

func TestResolveMalformedHeader(t *testing.T) {
	store := &fakeMembershipStore{}
	r := NewResolver(passthroughCache{}, store)

	_, err := r.Resolve(context.Background(), testIdentity(), "not-a-uuid")
	if !errors.Is(err, domerrors.ErrMissingOrInvalidOrgHeader) {
		t.Fatalf("expected ErrMissingOrInvalidOrgHeader, got %v", err)
	}
	if store.loadCalls != 0 {
		t.Errorf("store must not be consulted for malformed ids, got %d calls", store.loadCalls)
	}
}

func TestResolveNilIdentity(t *testing.T) {
	r := NewResolver(passthroughCache{}, &fakeMembershipStore{})

	_, err := r.Resolve(context.Background(), nil, uuid.NewString())
	if !errors.Is(err, domerrors.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestResolveNotAMember(t *testing.T) {
	identity := testIdentity()
	otherOrg := domain.NewOrganizationID(uuid.New())
	store := &fakeMembershipStore{
		memberships: map[domain.UserID][]*domain.Membership{
			identity.ID: {
				{UserID: identity.ID, OrganizationID: otherOrg, Role: domain.RoleAdmin, Active: true},
			},
		},
	}
	r := NewResolver(passthroughCache{}, store)

	_, err := r.Resolve(context.Background(), identity, uuid.NewString())
	if !errors.Is(err, domerrors.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
}

func TestResolveInactiveMembership(t *testing.T) {
	identity := testIdentity()
	orgID := domain.NewOrganizationID(uuid.New())
	store := &fakeMembershipStore{
		memberships: map[domain.UserID][]*domain.Membership{
			identity.ID: {
				{UserID: identity.ID, OrganizationID: orgID, Role: domain.RoleUser, Active: false},
			},
		},
	}
	r := NewResolver(passthroughCache{}, store)

	_, err := r.Resolve(context.Background(), identity, orgID.String())
	if !errors.Is(err, domerrors.ErrMembershipInactive) {
		t.Fatalf("expected ErrMembershipInactive, got %v", err)
	}
}

func TestResolveActiveMembership(t *testing.T) {
	identity := testIdentity()
	orgID := domain.NewOrganizationID(uuid.New())
	otherOrg := domain.NewOrganizationID(uuid.New())
	store := &fakeMembershipStore{
		memberships: map[domain.UserID][]*domain.Membership{
			identity.ID: {
				{UserID: identity.ID, OrganizationID: otherOrg, Role: domain.RoleReadOnly, Active: true},
				{UserID: identity.ID, OrganizationID: orgID, Role: domain.RoleAdmin, Active: true},
			},
		},
	}
	r := NewResolver(passthroughCache{}, store)

	tenant, err := r.Resolve(context.Background(), identity, orgID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant.OrganizationID != orgID {
		t.Errorf("tenant bound to %s, want %s", tenant.OrganizationID, orgID)
	}
	if tenant.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", tenant.Role)
	}
	if !tenant.Capabilities.CanManageUsers {
		t.Error("admin tenant context should carry CanManageUsers")
	}
}

func TestResolveStoreErrorIsNotATenantDenial(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &fakeMembershipStore{err: storeErr}
	r := NewResolver(passthroughCache{}, store)

	_, err := r.Resolve(context.Background(), testIdentity(), uuid.NewString())
	if !errors.Is(err, storeErr) {
		t.Fatalf("store error should propagate, got %v", err)
	}
	if domerrors.IsTenantError(err) {
		t.Error("infrastructure failures must not masquerade as tenant denials")
	}
}
