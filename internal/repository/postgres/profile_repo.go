package postgres

import (
	"context"
	"errors"
	"time"

	"ocs-recruitment-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts a new profile; the code is assigned by the database.
func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (owner_id, company_name, designation, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING code`

	profile.CreatedAt = time.Now()
	return r.db.QueryRow(ctx, query,
		profile.OwnerID,
		profile.CompanyName,
		profile.Designation,
		profile.CreatedAt,
	).Scan(&profile.Code)
}

func (r *profileRepo) GetByCode(ctx context.Context, code int64) (*domain.Profile, error) {
	query := `SELECT code, owner_id, company_name, designation, created_at FROM profiles WHERE code = $1`

	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, code).Scan(
		&profile.Code, &profile.OwnerID, &profile.CompanyName, &profile.Designation, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) FetchAll(ctx context.Context) ([]domain.Profile, error) {
	query := `SELECT code, owner_id, company_name, designation, created_at FROM profiles ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func (r *profileRepo) FetchByOwner(ctx context.Context, ownerID string) ([]domain.Profile, error) {
	query := `SELECT code, owner_id, company_name, designation, created_at FROM profiles WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

// FetchCodesByOwner returns just the codes for ownership membership checks.
func (r *profileRepo) FetchCodesByOwner(ctx context.Context, ownerID string) ([]int64, error) {
	query := `SELECT code FROM profiles WHERE owner_id = $1`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []int64
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func scanProfiles(rows pgx.Rows) ([]domain.Profile, error) {
	var profiles []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.Code, &profile.OwnerID, &profile.CompanyName, &profile.Designation, &profile.CreatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
