package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type MockPollRepository struct {
	mock.Mock
}

func (m *MockPollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}

func (m *MockPollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *MockPollRepository) List(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Poll), args.Error(1)
}

func (m *MockPollRepository) UpdateMetadata(ctx context.Context, poll *domain.Poll) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}

func (m *MockPollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPollRepository) IncrementTally(ctx context.Context, pollID, choiceID uuid.UUID) error {
	args := m.Called(ctx, pollID, choiceID)
	return args.Error(0)
}

func (m *MockPollRepository) ReconcileStatuses(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionRepository) AddMembership(ctx context.Context, mb *domain.Membership) (bool, error) {
	args := m.Called(ctx, mb)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, userID, collectionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) AdjustCounter(ctx context.Context, kind domain.MembershipKind, collectionID uuid.UUID, delta int64) (int64, error) {
	args := m.Called(ctx, kind, collectionID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
