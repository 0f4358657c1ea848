package domain

import (
	"context"
	"time"
)

// Profile is a job posting owned by exactly one recruiter identity.
// The owner is fixed at creation and never reassigned.
type Profile struct {
	Code        int64     `json:"code"`
	OwnerID     string    `json:"owner_id"`
	CompanyName string    `json:"company_name"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByCode(ctx context.Context, code int64) (*Profile, error)
	FetchAll(ctx context.Context) ([]Profile, error)
	FetchByOwner(ctx context.Context, ownerID string) ([]Profile, error)
	// FetchCodesByOwner returns only the codes of profiles owned by ownerID.
	// Used by the application view projection for recruiters.
	FetchCodesByOwner(ctx context.Context, ownerID string) ([]int64, error)
}

// CreateProfileInput is validated at the usecase layer.
type CreateProfileInput struct {
	CompanyName string `validate:"required,max=120"`
	Designation string `validate:"required,max=120"`
	// OwnerOverride is honored for admins only; recruiters always own what
	// they create regardless of this field.
	OwnerOverride string
}

type ProfileUsecase interface {
	CreateProfile(ctx context.Context, caller *Identity, in CreateProfileInput) (*Profile, error)
	ListProfiles(ctx context.Context, caller *Identity) ([]Profile, error)
}
