package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
	"github.com/vncsmyrnk/inappvote/internal/metrics"
)

type voteService struct {
	tx         ports.Transactor
	pollRepo   ports.PollRepository
	userRepo   ports.UserRepository
	ballotRepo ports.BallotRepository
	clock      ports.Clock
	log        zerolog.Logger
}

func NewVoteService(
	tx ports.Transactor,
	pollRepo ports.PollRepository,
	userRepo ports.UserRepository,
	ballotRepo ports.BallotRepository,
	clock ports.Clock,
	log zerolog.Logger,
) ports.VoteService {
	return &voteService{
		tx:         tx,
		pollRepo:   pollRepo,
		userRepo:   userRepo,
		ballotRepo: ballotRepo,
		clock:      clock,
		log:        log.With().Str("service", "vote").Logger(),
	}
}

// Cast records one ballot for the user, debits the poll's required points
// and increments the chosen tally, all or nothing.
//
// The checks before the transaction only fail fast. Every one of them is
// repeated on locked rows inside the transaction, which is what makes two
// concurrent casts by the same user end in one success and one
// domain.ErrBallotExists.
//
// If ctx is cancelled while the commit is in flight the outcome is unknown;
// callers should look the ballot up with GetBallot before retrying.
func (s *voteService) Cast(ctx context.Context, input ports.CastInput) (result *domain.CastResult, err error) {
	started := time.Now()
	defer func() {
		metrics.CastDuration.Observe(time.Since(started).Seconds())
		metrics.BallotsTotal.WithLabelValues(castOutcome(err)).Inc()
	}()

	if err := s.precheck(ctx, input); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		poll, err := s.pollRepo.GetForUpdate(txCtx, input.PollID)
		if err != nil {
			return err
		}
		if err := checkPollAccepts(poll, input.ChoiceID, s.clock.Now()); err != nil {
			return err
		}

		user, err := s.userRepo.GetForUpdate(txCtx, input.UserID)
		if err != nil {
			return err
		}
		if user.Balance < poll.RequiredPoints {
			return s.shortfall(txCtx, input)
		}

		exists, err := s.ballotRepo.Exists(txCtx, input.PollID, input.UserID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrBallotExists
		}

		if poll.RequiredPoints > 0 {
			if err := s.userRepo.DebitPoints(txCtx, input.UserID, poll.RequiredPoints); err != nil {
				return err
			}
		}

		if err := s.pollRepo.IncrementTally(txCtx, input.PollID, input.ChoiceID); err != nil {
			return err
		}

		ballot := &domain.Ballot{
			ID:       domain.BallotID(input.PollID, input.UserID),
			PollID:   input.PollID,
			UserID:   input.UserID,
			ChoiceID: input.ChoiceID,
			CastAt:   s.clock.Now(),
		}
		if err := s.ballotRepo.Create(txCtx, ballot); err != nil {
			return err
		}

		result = &domain.CastResult{
			PollID:         input.PollID,
			ChoiceID:       input.ChoiceID,
			PointsDeducted: poll.RequiredPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Stringer("poll_id", input.PollID).
		Stringer("user_id", input.UserID).
		Stringer("choice_id", input.ChoiceID).
		Int64("points", result.PointsDeducted).
		Msg("ballot cast")

	return result, nil
}

func (s *voteService) precheck(ctx context.Context, input ports.CastInput) error {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return err
	}
	if err := checkPollAccepts(poll, input.ChoiceID, s.clock.Now()); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user.Balance < poll.RequiredPoints {
		return s.shortfall(ctx, input)
	}

	exists, err := s.ballotRepo.Exists(ctx, input.PollID, input.UserID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrBallotExists
	}
	return nil
}

// shortfall reports a low balance, unless the balance is low because this
// user already paid for a ballot on the poll.
func (s *voteService) shortfall(ctx context.Context, input ports.CastInput) error {
	exists, err := s.ballotRepo.Exists(ctx, input.PollID, input.UserID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrBallotExists
	}
	return domain.ErrInsufficientPoints
}

func checkPollAccepts(poll *domain.Poll, choiceID uuid.UUID, now time.Time) error {
	if poll.CurrentStatus(now) != domain.StatusActive {
		return domain.ErrPollNotActive
	}
	if !poll.HasChoice(choiceID) {
		return domain.ErrUnknownChoice
	}
	return nil
}

func (s *voteService) GetBallot(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error) {
	return s.ballotRepo.GetByPollAndUser(ctx, pollID, userID)
}

func castOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(domain.KindOf(err))
}
