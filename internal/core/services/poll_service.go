package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type pollService struct {
	repo  ports.PollRepository
	clock ports.Clock
	log   zerolog.Logger
}

func NewPollService(repo ports.PollRepository, clock ports.Clock, log zerolog.Logger) ports.PollService {
	return &pollService{
		repo:  repo,
		clock: clock,
		log:   log.With().Str("service", "poll").Logger(),
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	if err := domain.ValidateSchedule(input.StartAt, input.EndAt, input.RequiredPoints); err != nil {
		return nil, err
	}

	pollID := uuid.New()
	now := s.clock.Now()

	poll := &domain.Poll{
		ID:             pollID,
		Title:          title,
		Description:    input.Description,
		StartAt:        input.StartAt,
		EndAt:          input.EndAt,
		RequiredPoints: input.RequiredPoints,
		Status:         domain.DeriveStatus(now, input.StartAt, input.EndAt),
		CoverImageURL:  input.CoverImageURL,
		Featured:       input.Featured,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	seen := make(map[string]struct{}, len(input.Choices))
	for _, label := range input.Choices {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			return nil, domain.ErrDuplicateChoice
		}
		seen[label] = struct{}{}

		poll.Choices = append(poll.Choices, domain.Choice{
			ID:       uuid.New(),
			PollID:   pollID,
			Label:    label,
			Position: len(poll.Choices),
		})
	}

	if len(poll.Choices) < 2 {
		return nil, domain.ErrNotEnoughChoices
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	s.log.Info().Stringer("poll_id", poll.ID).Str("status", string(poll.Status)).Msg("poll created")
	return poll, nil
}

func (s *pollService) Update(ctx context.Context, id uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	if input.Choices != nil {
		return nil, domain.ErrChoicesImmutable
	}

	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		poll.Title = title
	}
	if input.Description != nil {
		poll.Description = *input.Description
	}
	if input.StartAt != nil {
		poll.StartAt = *input.StartAt
	}
	if input.EndAt != nil {
		poll.EndAt = *input.EndAt
	}
	if input.RequiredPoints != nil {
		poll.RequiredPoints = *input.RequiredPoints
	}
	if input.CoverImageURL != nil {
		if url := strings.TrimSpace(*input.CoverImageURL); url != "" {
			poll.CoverImageURL = &url
		} else {
			poll.CoverImageURL = nil
		}
	}
	if input.Featured != nil {
		poll.Featured = *input.Featured
	}

	if err := domain.ValidateSchedule(poll.StartAt, poll.EndAt, poll.RequiredPoints); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	poll.Status = poll.CurrentStatus(now)
	poll.UpdatedAt = now

	if err := s.repo.UpdateMetadata(ctx, poll); err != nil {
		return nil, err
	}

	s.log.Info().Stringer("poll_id", poll.ID).Msg("poll updated")
	return poll, nil
}

// Delete removes the poll and its choices. Ballots and the points they
// debited are left as they are.
func (s *pollService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Stringer("poll_id", id).Msg("poll deleted")
	return nil
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	poll.Status = poll.CurrentStatus(s.clock.Now())
	return poll, nil
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	if input.Limit < 0 || input.Offset < 0 {
		return nil, domain.ErrInvalidPage
	}

	now := s.clock.Now()
	filter := ports.PollFilter{Now: now, Limit: input.Limit, Offset: input.Offset}
	switch {
	case filter.Limit == 0:
		filter.Limit = ports.DefaultPageSize
	case filter.Limit > ports.MaxPageSize:
		filter.Limit = ports.MaxPageSize
	}

	if input.Status != "" {
		status, err := domain.ParsePollStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	polls, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, p := range polls {
		p.Status = p.CurrentStatus(now)
	}
	return polls, nil
}

func (s *pollService) GetRanking(ctx context.Context, id uuid.UUID) (*domain.RankingView, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := domain.Project(poll)
	return &view, nil
}
