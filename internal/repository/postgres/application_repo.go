package postgres

import (
	"context"
	"errors"
	"time"

	"ocs-recruitment-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The composite primary key on
// (profile_code, candidate_id) is the uniqueness constraint: concurrent
// inserts for the same pair resolve to exactly one row and one
// ErrDuplicateApplication, with no read-then-write window.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (profile_code, candidate_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusApplied
	}

	_, err := r.db.Exec(ctx, query,
		app.ProfileCode,
		app.CandidateID,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *applicationRepo) Get(ctx context.Context, profileCode int64, candidateID string) (*domain.Application, error) {
	query := `
		SELECT a.profile_code, a.candidate_id, a.status, a.created_at, a.updated_at,
		       p.company_name, p.designation
		FROM applications a
		LEFT JOIN profiles p ON a.profile_code = p.code
		WHERE a.profile_code = $1 AND a.candidate_id = $2`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, profileCode, candidateID).Scan(
		&app.ProfileCode, &app.CandidateID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
		&app.CompanyName, &app.Designation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// UpdateStatusFrom performs the transition as one conditional UPDATE. The
// WHERE clause carries the expected current status, so a writer that lost a
// race touches zero rows instead of clobbering the winner's result.
func (r *applicationRepo) UpdateStatusFrom(ctx context.Context, profileCode int64, candidateID, from, to string) (bool, error) {
	query := `
		UPDATE applications SET status = $4, updated_at = $5
		WHERE profile_code = $1 AND candidate_id = $2 AND status = $3`

	result, err := r.db.Exec(ctx, query, profileCode, candidateID, from, to, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// The only unique constraint an UPDATE can trip is the partial
			// index guarding the single-offer rule.
			return false, domain.ErrOfferAlreadyAccepted
		}
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// HasAccepted reports whether the candidate already holds an Accepted offer.
func (r *applicationRepo) HasAccepted(ctx context.Context, candidateID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE candidate_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, candidateID, domain.StatusAccepted).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) FetchByCandidate(ctx context.Context, candidateID string) ([]domain.Application, error) {
	query := applicationSelect + ` WHERE a.candidate_id = $1 ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepo) FetchByProfileCodes(ctx context.Context, codes []int64) ([]domain.Application, error) {
	query := applicationSelect + ` WHERE a.profile_code = ANY($1) ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	query := applicationSelect + ` ORDER BY a.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

// applicationSelect joins the owning profile for display purposes only; the
// join never feeds authorization decisions.
const applicationSelect = `
	SELECT a.profile_code, a.candidate_id, a.status, a.created_at, a.updated_at,
	       p.company_name, p.designation
	FROM applications a
	LEFT JOIN profiles p ON a.profile_code = p.code`

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ProfileCode, &app.CandidateID, &app.Status, &app.CreatedAt, &app.UpdatedAt,
			&app.CompanyName, &app.Designation,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}
