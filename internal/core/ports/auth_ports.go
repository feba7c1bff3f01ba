package ports

import (
	"context"

	"github.com/vncsmyrnk/inappvote/internal/core/domain"
)

// IdentityVerifier turns a bearer credential into a verified identity or
// fails with domain.ErrUnauthenticated.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
