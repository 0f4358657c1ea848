package domain

import (
	"context"
	"time"
)

// Roles known to the system. An identity keeps its role for the whole
// session lifetime; roles are assigned at provisioning time, not via the API.
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Identity is an authenticated actor. CredentialDigest is a plain SHA-256
// hex digest of the secret, NOT a password KDF. Seeding happens out of band
// (see scripts/schema.sql and scripts/genhash.go).
type Identity struct {
	ID               string    `json:"id"` // entry number for students, email for recruiters
	Role             string    `json:"role"`
	CredentialDigest string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r string) bool {
	return r == RoleStudent || r == RoleRecruiter || r == RoleAdmin
}

type IdentityRepository interface {
	GetByID(ctx context.Context, id string) (*Identity, error)
}

// AuthUsecase verifies credentials and answers identity lookups for
// already-authenticated callers.
type AuthUsecase interface {
	// Login compares the submitted digest against the stored one and issues
	// a signed session token. A missing identity and a mismatched digest are
	// indistinguishable to the caller.
	Login(ctx context.Context, identityID, credentialDigest string) (*LoginResult, error)
	// WhoAmI returns the identity record behind a verified token subject.
	WhoAmI(ctx context.Context, identityID string) (*Identity, error)
}

// LoginResult carries the issued token back to the client.
type LoginResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
