package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// GetForUpdate locks the poll row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	List(ctx context.Context, filter PollFilter) ([]*domain.Poll, error)
	UpdateMetadata(ctx context.Context, poll *domain.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementTally adds one vote to the choice and to the poll total.
	IncrementTally(ctx context.Context, pollID, choiceID uuid.UUID) error
	// ReconcileStatuses rewrites stored statuses that no longer match the
	// schedule at now and returns the number of rows changed.
	ReconcileStatuses(ctx context.Context, now time.Time) (int64, error)
}

// PollFilter selects polls by schedule-derived status at Now. A zero Limit
// returns every matching row.
type PollFilter struct {
	Status *domain.PollStatus
	Now    time.Time
	Limit  int
	Offset int
}

type CreatePollInput struct {
	Title          string
	Description    string
	Choices        []string
	StartAt        time.Time
	EndAt          time.Time
	RequiredPoints int64
	CoverImageURL  *string
	Featured       bool
}

// UpdatePollInput is a partial update; nil fields are left unchanged. An
// empty CoverImageURL clears the cover. Choices is accepted only to be
// rejected.
type UpdatePollInput struct {
	Title          *string
	Description    *string
	StartAt        *time.Time
	EndAt          *time.Time
	RequiredPoints *int64
	CoverImageURL  *string
	Featured       *bool
	Choices        []string
}

// ListPollsInput pages through polls newest first. A zero Limit means
// DefaultPageSize and larger values are capped at MaxPageSize.
type ListPollsInput struct {
	Status string
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
	GetRanking(ctx context.Context, id uuid.UUID) (*domain.RankingView, error)
}

type StatusService interface {
	Reconcile(ctx context.Context) (int64, error)
}
