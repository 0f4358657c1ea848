package domain

import (
	"context"
	"errors"
	"time"
)

// Application status constants. The exact strings are part of the stored
// data and the API contract.
const (
	StatusApplied     = "Applied"
	StatusSelected    = "Selected"
	StatusAccepted    = "Accepted"
	StatusNotSelected = "NotSelected"
)

// Common domain errors. Repositories return these; usecases translate them
// into client-facing apperror values.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrDuplicateApplication = errors.New("application already exists for this profile and candidate")
	// ErrOfferAlreadyAccepted reports a write the store refused because the
	// candidate already holds an Accepted application.
	ErrOfferAlreadyAccepted = errors.New("candidate already holds an accepted offer")
)

// statusTransitions is the full adjacency graph of the lifecycle:
//
//	(none) --apply--> Applied --select--> Selected --accept--> Accepted
//	                      |                   |
//	                      +----> NotSelected <+
//
// Accepted and NotSelected are terminal. There is no re-apply after
// resolution: one row per (profile, candidate), never deleted.
var statusTransitions = map[string][]string{
	StatusApplied:  {StatusSelected, StatusNotSelected},
	StatusSelected: {StatusAccepted, StatusNotSelected},
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
// Every mutation funnels through this check; callers never get to invent
// their own edges.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusSelected, StatusAccepted, StatusNotSelected:
		return true
	}
	return false
}

// RecruiterSettable reports whether a recruiter or admin may drive an
// application into s via the change-status operation. Accepting is the
// candidate's move alone.
func RecruiterSettable(s string) bool {
	return s == StatusSelected || s == StatusNotSelected
}

// Application tracks the evolving relationship between one candidate and
// one profile. (ProfileCode, CandidateID) is the composite key: at most one
// row per pair.
type Application struct {
	ProfileCode int64     `json:"profile_code"`
	CandidateID string    `json:"candidate_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined profile data for list responses; read-side only, never persisted.
	CompanyName *string `json:"company_name,omitempty"`
	Designation *string `json:"designation,omitempty"`
}

type ApplicationRepository interface {
	// Create inserts a new Applied row. Uniqueness of the pair is enforced
	// by the store at insert time; a duplicate insert returns
	// ErrDuplicateApplication, never a second row.
	Create(ctx context.Context, app *Application) error
	Get(ctx context.Context, profileCode int64, candidateID string) (*Application, error)
	// UpdateStatusFrom flips status from -> to as one atomic compare-and-set.
	// It reports false when no row matched, either because the application
	// does not exist or because a concurrent writer moved it off `from`.
	UpdateStatusFrom(ctx context.Context, profileCode int64, candidateID, from, to string) (bool, error)
	// HasAccepted reports whether the candidate holds any Accepted
	// application (single-offer rule).
	HasAccepted(ctx context.Context, candidateID string) (bool, error)
	FetchByCandidate(ctx context.Context, candidateID string) ([]Application, error)
	FetchByProfileCodes(ctx context.Context, codes []int64) ([]Application, error)
	FetchAll(ctx context.Context) ([]Application, error)
}

type ApplicationUsecase interface {
	// Student operations. The candidate is always the caller; there is no
	// applying or accepting on someone else's behalf.
	Apply(ctx context.Context, caller *Identity, profileCode int64) (*Application, error)
	Accept(ctx context.Context, caller *Identity, profileCode int64) (*Application, error)
	Decline(ctx context.Context, caller *Identity, profileCode int64) (*Application, error)

	// Recruiter/admin operation. Recruiters may only touch applications on
	// profiles they own.
	ChangeStatus(ctx context.Context, caller *Identity, profileCode int64, candidateID, newStatus string) (*Application, error)

	// ListApplications produces the role-scoped projection: students see
	// their own, recruiters see applications on owned profiles, admins see
	// everything.
	ListApplications(ctx context.Context, caller *Identity) ([]Application, error)
}
