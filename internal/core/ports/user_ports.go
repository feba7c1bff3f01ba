package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// DebitPoints never takes a balance below zero; it fails with
	// domain.ErrInsufficientPoints instead.
	DebitPoints(ctx context.Context, id uuid.UUID, amount int64) error
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
