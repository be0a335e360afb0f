package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenantgate/tenantgate/internal/application/ports"
	"github.com/tenantgate/tenantgate/internal/domain"
)

// IdentityRepository is the read-only pgx-backed identity loader. The
// identity rows are owned by the registration/profile collaborator; this
// subsystem never writes them.
type IdentityRepository struct {
	pool *pgxpool.Pool
}

func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.Identity, error) {
	const q = `
		SELECT id, email, display_name, active
		FROM users
		WHERE id = $1`
	var (
		id          uuid.UUID
		email       string
		displayName string
		active      bool
	)
	err := r.pool.QueryRow(ctx, q, userID.UUID).Scan(&id, &email, &displayName, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Identity{
		ID:          domain.NewUserID(id),
		Email:       email,
		DisplayName: displayName,
		Active:      active,
	}, nil
}

var _ ports.IdentityStore = (*IdentityRepository)(nil)
