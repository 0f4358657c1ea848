package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/internal/usecase"
	"ocs-recruitment-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func acmeProfile(owner string) *domain.Profile {
	return &domain.Profile{Code: 1, OwnerID: owner, CompanyName: "Acme", Designation: "Engineer"}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an Applied row for the caller", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil)
		appRepo.On("Create", ctx, mock.AnythingOfType("*domain.Application")).Return(nil).Run(func(args mock.Arguments) {
			a := args.Get(1).(*domain.Application)
			assert.Equal(t, "s001", a.CandidateID)
			assert.Equal(t, domain.StatusApplied, a.Status)
		})

		app, err := uc.Apply(ctx, student("s001"), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApplied, app.Status)
	})

	t.Run("second apply for the same pair fails with a conflict", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil)
		appRepo.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateApplication)

		_, err := uc.Apply(ctx, student("s001"), 1)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		assert.Contains(t, err.Error(), "Already applied")
	})

	t.Run("candidate holding an accepted offer cannot apply anywhere", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(2)).Return(acmeProfile("rec1"), nil)
		appRepo.On("HasAccepted", ctx, "s001").Return(true, nil)

		_, err := uc.Apply(ctx, student("s001"), 2)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		assert.Contains(t, err.Error(), "already accepted an offer")
		appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown profile fails with not found", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := uc.Apply(ctx, student("s001"), 99)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})

	t.Run("non-students cannot apply", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		_, err := uc.Apply(ctx, recruiter("rec1"), 1)
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
	})
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owning recruiter selects an applicant", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusApplied, domain.StatusSelected).Return(true, nil)

		app, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "s001", domain.StatusSelected)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusSelected, app.Status)
	})

	t.Run("non-owning recruiter is refused without touching state", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)

		_, err := uc.ChangeStatus(ctx, recruiter("rec2"), 1, "s001", domain.StatusSelected)
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
		assert.Contains(t, err.Error(), "do not own")
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin may change status on any profile", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusApplied, domain.StatusNotSelected).Return(true, nil)

		app, err := uc.ChangeStatus(ctx, admin("boss"), 1, "s001", domain.StatusNotSelected)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusNotSelected, app.Status)
	})

	t.Run("recruiters cannot drive an application to Accepted", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		_, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "s001", domain.StatusAccepted)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		profileRepo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
	})

	t.Run("unknown status is a bad request", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		_, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "s001", "Shortlisted")
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})

	t.Run("terminal statuses stay terminal", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusNotSelected}, nil)

		_, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "s001", domain.StatusSelected)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the compare-and-set race fails instead of overwriting", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		// We read Applied, but another writer moves the row to NotSelected
		// before our conditional update lands.
		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil).Once()
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusApplied, domain.StatusSelected).Return(false, nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusNotSelected}, nil).Once()

		_, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "s001", domain.StatusSelected)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		assert.Contains(t, err.Error(), "NotSelected")
	})

	t.Run("missing application is not found", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("rec1"), nil)
		appRepo.On("Get", ctx, int64(1), "ghost").Return(nil, domain.ErrNotFound)

		_, err := uc.ChangeStatus(ctx, recruiter("rec1"), 1, "ghost", domain.StatusSelected)
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})
}

func TestAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a Selected application", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusSelected}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusSelected, domain.StatusAccepted).Return(true, nil)

		app, err := uc.Accept(ctx, student("s001"), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, app.Status)
	})

	t.Run("second accept in a row fails", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil).Once()
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusSelected}, nil).Once()
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusSelected, domain.StatusAccepted).Return(true, nil).Once()
		appRepo.On("HasAccepted", ctx, "s001").Return(true, nil).Once()

		_, err := uc.Accept(ctx, student("s001"), 1)
		assert.NoError(t, err)

		_, err = uc.Accept(ctx, student("s001"), 2)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		assert.Contains(t, err.Error(), "already accepted an offer")
	})

	t.Run("racing accepts resolve to a single offer", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		// Both accepts pass the pre-check; the store's unique constraint on
		// accepted applications rejects the loser's conditional update.
		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil)
		appRepo.On("Get", ctx, int64(2), "s001").Return(&domain.Application{ProfileCode: 2, CandidateID: "s001", Status: domain.StatusSelected}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(2), "s001", domain.StatusSelected, domain.StatusAccepted).Return(false, domain.ErrOfferAlreadyAccepted)

		_, err := uc.Accept(ctx, student("s001"), 2)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		assert.Contains(t, err.Error(), "already accepted an offer")
	})

	t.Run("cannot accept an application that is only Applied", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("HasAccepted", ctx, "s001").Return(false, nil)
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil)

		_, err := uc.Accept(ctx, student("s001"), 1)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-students cannot accept", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		_, err := uc.Accept(ctx, admin("boss"), 1)
		assert.Equal(t, http.StatusForbidden, appErrCode(t, err))
	})
}

func TestDecline(t *testing.T) {
	ctx := context.Background()

	t.Run("turns a Selected application down", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusSelected}, nil)
		appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusSelected, domain.StatusNotSelected).Return(true, nil)

		app, err := uc.Decline(ctx, student("s001"), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusNotSelected, app.Status)
	})

	t.Run("cannot decline before being selected", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		// Applied reaches NotSelected in the lifecycle graph via the
		// recruiter's reject edge, but a student declining an application
		// that was never Selected must be refused, not silently withdrawn.
		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil)

		_, err := uc.Decline(ctx, student("s001"), 1)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cannot decline an already accepted offer", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusAccepted}, nil)

		_, err := uc.Decline(ctx, student("s001"), 1)
		assert.Equal(t, http.StatusConflict, appErrCode(t, err))
		appRepo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListApplications(t *testing.T) {
	ctx := context.Background()

	t.Run("students see only their own applications", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("FetchByCandidate", ctx, "s001").Return([]domain.Application{
			{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied},
		}, nil)

		apps, err := uc.ListApplications(ctx, student("s001"))
		assert.NoError(t, err)
		assert.Len(t, apps, 1)
	})

	t.Run("recruiters see applications on owned profiles via the two-step join", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("FetchCodesByOwner", ctx, "rec1").Return([]int64{1, 3}, nil)
		appRepo.On("FetchByProfileCodes", ctx, []int64{1, 3}).Return([]domain.Application{
			{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied},
			{ProfileCode: 3, CandidateID: "s002", Status: domain.StatusSelected},
		}, nil)

		apps, err := uc.ListApplications(ctx, recruiter("rec1"))
		assert.NoError(t, err)
		assert.Len(t, apps, 2)
	})

	t.Run("recruiter without profiles gets an empty list without a fetch", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		profileRepo.On("FetchCodesByOwner", ctx, "rec9").Return([]int64{}, nil)

		apps, err := uc.ListApplications(ctx, recruiter("rec9"))
		assert.NoError(t, err)
		assert.Empty(t, apps)
		appRepo.AssertNotCalled(t, "FetchByProfileCodes", mock.Anything, mock.Anything)
	})

	t.Run("admins see everything", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

		appRepo.On("FetchAll", ctx).Return([]domain.Application{
			{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied},
			{ProfileCode: 2, CandidateID: "s002", Status: domain.StatusAccepted},
		}, nil)

		apps, err := uc.ListApplications(ctx, admin("boss"))
		assert.NoError(t, err)
		assert.Len(t, apps, 2)
	})
}

// Full offer lifecycle: apply, select, accept, then a second apply is
// rejected by the single-offer rule.
func TestOfferLifecycle(t *testing.T) {
	ctx := context.Background()
	appRepo := new(MockApplicationRepo)
	profileRepo := new(MockProfileRepo)
	uc := usecase.NewApplicationUsecase(appRepo, profileRepo)

	profileRepo.On("GetByCode", ctx, int64(1)).Return(acmeProfile("recA"), nil)
	appRepo.On("HasAccepted", ctx, "s001").Return(false, nil).Once()
	appRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	app, err := uc.Apply(ctx, student("s001"), 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, app.Status)

	appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusApplied}, nil).Once()
	appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusApplied, domain.StatusSelected).Return(true, nil).Once()

	app, err = uc.ChangeStatus(ctx, recruiter("recA"), 1, "s001", domain.StatusSelected)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusSelected, app.Status)

	appRepo.On("HasAccepted", ctx, "s001").Return(false, nil).Once()
	appRepo.On("Get", ctx, int64(1), "s001").Return(&domain.Application{ProfileCode: 1, CandidateID: "s001", Status: domain.StatusSelected}, nil).Once()
	appRepo.On("UpdateStatusFrom", ctx, int64(1), "s001", domain.StatusSelected, domain.StatusAccepted).Return(true, nil).Once()

	app, err = uc.Accept(ctx, student("s001"), 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, app.Status)

	profileRepo.On("GetByCode", ctx, int64(2)).Return(acmeProfile("recB"), nil)
	appRepo.On("HasAccepted", ctx, "s001").Return(true, nil).Once()

	_, err = uc.Apply(ctx, student("s001"), 2)
	assert.Equal(t, http.StatusConflict, appErrCode(t, err))
}
