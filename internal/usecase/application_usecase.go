package usecase

import (
	"context"
	"errors"
	"fmt"

	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	profileRepo     domain.ProfileRepository
}

// NewApplicationUsecase creates the application lifecycle usecase
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	profileRepo domain.ProfileRepository,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		profileRepo:     profileRepo,
	}
}

// Apply creates a fresh Applied row for (profileCode, caller).
//
// The single-offer rule is checked against current data before the insert.
// Two concurrent applies from the same candidate racing a third request that
// accepts an unrelated offer can slip past this check; the store does not
// run the check and the insert under one serializable transaction. Pair
// uniqueness is not best-effort: the composite primary key rejects the
// second of two racing inserts, so exactly one row ever exists per pair.
func (uc *applicationUsecase) Apply(ctx context.Context, caller *domain.Identity, profileCode int64) (*domain.Application, error) {
	if caller.Role != domain.RoleStudent {
		return nil, apperror.Forbidden("Only students can apply to profiles")
	}

	if _, err := uc.profileRepo.GetByCode(ctx, profileCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal(err)
	}

	accepted, err := uc.applicationRepo.HasAccepted(ctx, caller.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if accepted {
		return nil, apperror.Conflict("You have already accepted an offer")
	}

	app := &domain.Application{
		ProfileCode: profileCode,
		CandidateID: caller.ID,
		Status:      domain.StatusApplied,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicateApplication) {
			return nil, apperror.Conflict("Already applied to this profile")
		}
		return nil, apperror.Internal(err)
	}
	return app, nil
}

// ChangeStatus lets the owning recruiter (or an admin) drive an application
// forward to Selected or park it at NotSelected. Accepting stays with the
// candidate; a recruiter asking for any other status is refused here no
// matter what the transport layer validated.
func (uc *applicationUsecase) ChangeStatus(ctx context.Context, caller *domain.Identity, profileCode int64, candidateID, newStatus string) (*domain.Application, error) {
	if caller.Role != domain.RoleRecruiter && caller.Role != domain.RoleAdmin {
		return nil, apperror.Forbidden("Only recruiters and admins can change application status")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperror.BadRequest(fmt.Sprintf("Unknown status %q", newStatus))
	}
	if !domain.RecruiterSettable(newStatus) {
		return nil, apperror.Conflict("Recruiters may only move applications to Selected or NotSelected")
	}

	profile, err := uc.profileRepo.GetByCode(ctx, profileCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, apperror.Internal(err)
	}
	if caller.Role == domain.RoleRecruiter && profile.OwnerID != caller.ID {
		return nil, apperror.Forbidden("You do not own this profile")
	}

	return uc.transition(ctx, profileCode, candidateID, "", newStatus)
}

// Accept moves the caller's own application Selected -> Accepted, subject
// to the single-offer rule: a candidate already holding an Accepted
// application cannot take a second one. Two accepts racing past the
// pre-check are resolved by the store, which lets only one through.
func (uc *applicationUsecase) Accept(ctx context.Context, caller *domain.Identity, profileCode int64) (*domain.Application, error) {
	if caller.Role != domain.RoleStudent {
		return nil, apperror.Forbidden("Only students can accept an offer")
	}

	accepted, err := uc.applicationRepo.HasAccepted(ctx, caller.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if accepted {
		return nil, apperror.Conflict("You have already accepted an offer")
	}

	return uc.transition(ctx, profileCode, caller.ID, domain.StatusSelected, domain.StatusAccepted)
}

// Decline turns down an offer: the caller's own application moves
// Selected -> NotSelected without the recruiter's involvement. There is
// nothing to decline before selection, so any other current status is
// refused even though the lifecycle graph also reaches NotSelected from
// Applied via the recruiter's reject edge.
func (uc *applicationUsecase) Decline(ctx context.Context, caller *domain.Identity, profileCode int64) (*domain.Application, error) {
	if caller.Role != domain.RoleStudent {
		return nil, apperror.Forbidden("Only students can decline an offer")
	}
	return uc.transition(ctx, profileCode, caller.ID, domain.StatusSelected, domain.StatusNotSelected)
}

// transition applies one edge of the lifecycle graph with a compare-and-set
// against the status the row currently shows. A non-empty requiredFrom pins
// the edge's source: the row must currently hold exactly that status, not
// merely any status adjacent to newStatus. If a concurrent writer moves the
// row between our read and our update, the CAS matches zero rows and the
// request fails instead of silently overwriting the other writer's result.
func (uc *applicationUsecase) transition(ctx context.Context, profileCode int64, candidateID, requiredFrom, newStatus string) (*domain.Application, error) {
	app, err := uc.applicationRepo.Get(ctx, profileCode, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}

	if requiredFrom != "" && app.Status != requiredFrom {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move application from %s to %s", app.Status, newStatus))
	}
	if !domain.CanTransition(app.Status, newStatus) {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move application from %s to %s", app.Status, newStatus))
	}

	updated, err := uc.applicationRepo.UpdateStatusFrom(ctx, profileCode, candidateID, app.Status, newStatus)
	if err != nil {
		if errors.Is(err, domain.ErrOfferAlreadyAccepted) {
			return nil, apperror.Conflict("You have already accepted an offer")
		}
		return nil, apperror.Internal(err)
	}
	if !updated {
		// Lost the race: someone else transitioned this row first.
		current, err := uc.applicationRepo.Get(ctx, profileCode, candidateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.NotFound("Application not found")
			}
			return nil, apperror.Internal(err)
		}
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move application from %s to %s", current.Status, newStatus))
	}

	app.Status = newStatus
	return app, nil
}

// ListApplications is the role-scoped projection over applications joined
// with their profiles. The recruiter branch is deliberately two-step: fetch
// owned profile codes, then filter applications by membership. Ownership
// scoping never relies on the store joining across tables for us.
func (uc *applicationUsecase) ListApplications(ctx context.Context, caller *domain.Identity) ([]domain.Application, error) {
	var (
		apps []domain.Application
		err  error
	)
	switch caller.Role {
	case domain.RoleStudent:
		apps, err = uc.applicationRepo.FetchByCandidate(ctx, caller.ID)
	case domain.RoleRecruiter:
		var codes []int64
		codes, err = uc.profileRepo.FetchCodesByOwner(ctx, caller.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if len(codes) == 0 {
			return []domain.Application{}, nil
		}
		apps, err = uc.applicationRepo.FetchByProfileCodes(ctx, codes)
	case domain.RoleAdmin:
		apps, err = uc.applicationRepo.FetchAll(ctx)
	default:
		return nil, apperror.Forbidden("Unknown role")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}
