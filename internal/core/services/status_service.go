package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
	"github.com/vncsmyrnk/inappvote/internal/metrics"
)

type statusService struct {
	pollRepo ports.PollRepository
	clock    ports.Clock
	log      zerolog.Logger
}

func NewStatusService(pollRepo ports.PollRepository, clock ports.Clock, log zerolog.Logger) ports.StatusService {
	return &statusService{
		pollRepo: pollRepo,
		clock:    clock,
		log:      log.With().Str("service", "status").Logger(),
	}
}

// Reconcile moves stored statuses forward to what the schedule says now.
// Reads never depend on it; it only keeps the stored column honest for
// consumers that query it directly.
func (s *statusService) Reconcile(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	changed, err := s.pollRepo.ReconcileStatuses(ctx, now)
	if err != nil {
		return 0, err
	}

	metrics.PollsReconciled.Add(float64(changed))
	s.log.Info().Int64("changed", changed).Time("as_of", now).Msg("poll statuses reconciled")
	return changed, nil
}
