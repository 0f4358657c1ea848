package postgres

import (
	"context"
	"errors"

	"ocs-recruitment-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type identityRepo struct {
	db *pgxpool.Pool
}

func NewIdentityRepository(db *pgxpool.Pool) domain.IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	query := `SELECT id, role, credential_digest, created_at FROM identities WHERE id = $1`

	var identity domain.Identity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&identity.ID, &identity.Role, &identity.CredentialDigest, &identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}
