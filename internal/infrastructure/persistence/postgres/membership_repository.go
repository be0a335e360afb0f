package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
)

// MembershipRepository is the read-only pgx-backed membership loader.
// Membership rows are soft-deactivated by the write side, never deleted, so
// inactive rows come back with Active=false and the resolver rejects them.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

func (r *MembershipRepository) LoadMembershipsForUser(ctx context.Context, userID domain.UserID) ([]*domain.Membership, error) {
	const q = `
		SELECT user_id, organization_id, role, active, invited_by, invitation_accepted_at
		FROM organization_members
		WHERE user_id = $1`
	rows, err := r.pool.Query(ctx, q, userID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func (r *MembershipRepository) ListForOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Membership, error) {
	const q = `
		SELECT user_id, organization_id, role, active, invited_by, invitation_accepted_at
		FROM organization_members
		WHERE organization_id = $1
		ORDER BY invitation_accepted_at NULLS LAST`
	rows, err := r.pool.Query(ctx, q, orgID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMemberships(rows)
}

func scanMemberships(rows pgx.Rows) ([]*domain.Membership, error) {
	var out []*domain.Membership
	for rows.Next() {
		var (
			userID     uuid.UUID
			orgID      uuid.UUID
			role       string
			active     bool
			invitedBy  *uuid.UUID
			acceptedAt *time.Time
		)
		if err := rows.Scan(&userID, &orgID, &role, &active, &invitedBy, &acceptedAt); err != nil {
			return nil, err
		}
		m := &domain.Membership{
			UserID:               domain.NewUserID(userID),
			OrganizationID:       domain.NewOrganizationID(orgID),
			Role:                 domain.Role(role),
			Active:               active,
			InvitationAcceptedAt: acceptedAt,
		}
		if invitedBy != nil {
			inviter := domain.NewUserID(*invitedBy)
			m.InvitedBy = &inviter
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ ports.MembershipStore = (*MembershipRepository)(nil)
