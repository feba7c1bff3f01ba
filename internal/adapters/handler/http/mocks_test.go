package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type MockPollService struct {
	mock.Mock
}

func (m *MockPollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollService) Update(ctx context.Context, id uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Poll), args.Error(1)
}

func (m *MockPollService) GetRanking(ctx context.Context, id uuid.UUID) (*domain.RankingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RankingView), args.Error(1)
}

type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) Cast(ctx context.Context, input ports.CastInput) (*domain.CastResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CastResult), args.Error(1)
}

func (m *MockVoteService) GetBallot(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error) {
	args := m.Called(ctx, pollID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ballot), args.Error(1)
}

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) GetCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionService) ToggleSave(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error) {
	args := m.Called(ctx, userID, collectionID, want)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToggleResult), args.Error(1)
}

func (m *MockCollectionService) ToggleLike(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error) {
	args := m.Called(ctx, userID, collectionID, want)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToggleResult), args.Error(1)
}

func (m *MockCollectionService) Drain(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// stubVerifier accepts tokens it was seeded with.
type stubVerifier map[string]*domain.Identity

func (v stubVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return nil, domain.ErrUnauthenticated
}
