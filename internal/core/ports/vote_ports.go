package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

type BallotRepository interface {
	// Create fails with domain.ErrBallotExists when a ballot for the
	// (poll, user) pair is already stored.
	Create(ctx context.Context, ballot *domain.Ballot) error
	Exists(ctx context.Context, pollID, userID uuid.UUID) (bool, error)
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error)
}

type CastInput struct {
	PollID   uuid.UUID
	UserID   uuid.UUID
	ChoiceID uuid.UUID
}

type VoteService interface {
	Cast(ctx context.Context, input CastInput) (*domain.CastResult, error)
	GetBallot(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error)
}
