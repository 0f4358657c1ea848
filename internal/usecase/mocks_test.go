package usecase_test

import (
	"context"

	"ocs-recruitment-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockIdentityRepo struct {
	mock.Mock
}

func (m *MockIdentityRepo) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByCode(ctx context.Context, code int64) (*domain.Profile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) FetchAll(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) FetchByOwner(ctx context.Context, ownerID string) ([]domain.Profile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) FetchCodesByOwner(ctx context.Context, ownerID string) ([]int64, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) Get(ctx context.Context, profileCode int64, candidateID string) (*domain.Application, error) {
	args := m.Called(ctx, profileCode, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatusFrom(ctx context.Context, profileCode int64, candidateID, from, to string) (bool, error) {
	args := m.Called(ctx, profileCode, candidateID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) HasAccepted(ctx context.Context, candidateID string) (bool, error) {
	args := m.Called(ctx, candidateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) FetchByCandidate(ctx context.Context, candidateID string) ([]domain.Application, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) FetchByProfileCodes(ctx context.Context, codes []int64) ([]domain.Application, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) FetchAll(ctx context.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

// Shorthand identities used across the tests.

func student(id string) *domain.Identity {
	return &domain.Identity{ID: id, Role: domain.RoleStudent}
}

func recruiter(id string) *domain.Identity {
	return &domain.Identity{ID: id, Role: domain.RoleRecruiter}
}

func admin(id string) *domain.Identity {
	return &domain.Identity{ID: id, Role: domain.RoleAdmin}
}
