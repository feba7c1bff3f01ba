package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

type CollectionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)
	// AddMembership reports false when the record already existed.
	AddMembership(ctx context.Context, m *domain.Membership) (bool, error)
	// RemoveMembership reports false when there was nothing to remove.
	RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID) (bool, error)
	// AdjustCounter adds delta to the counter driven by kind and returns the new value.
	AdjustCounter(ctx context.Context, kind domain.MembershipKind, collectionID uuid.UUID, delta int64) (int64, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type CollectionService interface {
	GetCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error)
	ToggleSave(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error)
	ToggleLike(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error)
	// Drain waits for background view increments to finish or for ctx to end.
	Drain(ctx context.Context) error
}
