package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
	"github.com/vncsmyrnk/inappvote/internal/metrics"
)

type collectionService struct {
	tx          ports.Transactor
	repo        ports.CollectionRepository
	clock       ports.Clock
	viewTimeout time.Duration
	log         zerolog.Logger
	views       sync.WaitGroup
}

func NewCollectionService(
	tx ports.Transactor,
	repo ports.CollectionRepository,
	clock ports.Clock,
	viewTimeout time.Duration,
	log zerolog.Logger,
) ports.CollectionService {
	return &collectionService{
		tx:          tx,
		repo:        repo,
		clock:       clock,
		viewTimeout: viewTimeout,
		log:         log.With().Str("service", "collection").Logger(),
	}
}

// GetCollection returns the collection and counts the view in the
// background. A failed view increment is logged and dropped.
func (s *collectionService) GetCollection(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	viewCtx := context.WithoutCancel(ctx)
	s.views.Go(func() { s.countView(viewCtx, id) })

	return c, nil
}

func (s *collectionService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.views.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *collectionService) countView(ctx context.Context, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, s.viewTimeout)
	defer cancel()

	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		metrics.ViewIncrementFailures.Inc()
		s.log.Warn().Err(err).Stringer("collection_id", id).Msg("view count increment dropped")
	}
}

func (s *collectionService) ToggleSave(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error) {
	return s.toggle(ctx, domain.MembershipSave, userID, collectionID, want)
}

func (s *collectionService) ToggleLike(ctx context.Context, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error) {
	return s.toggle(ctx, domain.MembershipLike, userID, collectionID, want)
}

// toggle drives the membership record towards want. The record and its
// counter change in the same transaction, and only when the record actually
// changed, so repeated calls with the same want are no-ops.
func (s *collectionService) toggle(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID, want bool) (*domain.ToggleResult, error) {
	var result *domain.ToggleResult
	changed := false

	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		c, err := s.repo.GetByID(txCtx, collectionID)
		if err != nil {
			return err
		}
		count := counterOf(c, kind)
		changed = false

		if want {
			added, err := s.repo.AddMembership(txCtx, &domain.Membership{
				ID:           domain.MembershipID(kind, userID, collectionID),
				Kind:         kind,
				UserID:       userID,
				CollectionID: collectionID,
				CreatedAt:    s.clock.Now(),
			})
			if err != nil {
				return err
			}
			if added {
				if count, err = s.repo.AdjustCounter(txCtx, kind, collectionID, 1); err != nil {
					return err
				}
				changed = true
			}
		} else {
			removed, err := s.repo.RemoveMembership(txCtx, kind, userID, collectionID)
			if err != nil {
				return err
			}
			if removed {
				if count, err = s.repo.AdjustCounter(txCtx, kind, collectionID, -1); err != nil {
					return err
				}
				changed = true
			}
		}

		result = &domain.ToggleResult{CollectionID: collectionID, Active: want, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "noop"
	if changed {
		outcome = "changed"
	}
	metrics.CollectionToggles.WithLabelValues(string(kind), outcome).Inc()

	return result, nil
}

func counterOf(c *domain.Collection, kind domain.MembershipKind) int64 {
	if kind == domain.MembershipLike {
		return c.LikeCount
	}
	return c.SaveCount
}
