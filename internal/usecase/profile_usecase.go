package usecase

import (
	"context"

	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"
	"ocs-recruitment-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	validate    *validator.Validate
}

// NewProfileUsecase creates the profile registry usecase
func NewProfileUsecase(profileRepo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{profileRepo: profileRepo, validate: validate}
}

// CreateProfile registers a new job profile. Recruiters always own what they
// create: any caller-supplied owner is ignored for them, so one recruiter
// cannot plant profiles under another's identity. Admins may create on a
// recruiter's behalf via the override.
func (u *profileUsecase) CreateProfile(ctx context.Context, caller *domain.Identity, in domain.CreateProfileInput) (*domain.Profile, error) {
	if caller.Role != domain.RoleRecruiter && caller.Role != domain.RoleAdmin {
		return nil, apperror.Forbidden("Only recruiters and admins can create profiles")
	}

	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}

	owner := caller.ID
	if caller.Role == domain.RoleAdmin && in.OwnerOverride != "" {
		owner = in.OwnerOverride
	}

	profile := &domain.Profile{
		OwnerID:     owner,
		CompanyName: in.CompanyName,
		Designation: in.Designation,
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// ListProfiles returns the caller's view of the registry: recruiters see
// only their own profiles, students and admins see all of them.
func (u *profileUsecase) ListProfiles(ctx context.Context, caller *domain.Identity) ([]domain.Profile, error) {
	var (
		profiles []domain.Profile
		err      error
	)
	if caller.Role == domain.RoleRecruiter {
		profiles, err = u.profileRepo.FetchByOwner(ctx, caller.ID)
	} else {
		profiles, err = u.profileRepo.FetchAll(ctx)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}
