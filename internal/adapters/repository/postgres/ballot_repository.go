package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type ballotRepository struct {
	client *Client
}

func NewBallotRepository(client *Client) ports.BallotRepository {
	return &ballotRepository{
		client: client,
	}
}

type ballotRow struct {
	ID       uuid.UUID `db:"id"`
	PollID   uuid.UUID `db:"poll_id"`
	UserID   uuid.UUID `db:"user_id"`
	ChoiceID uuid.UUID `db:"choice_id"`
	CastAt   time.Time `db:"cast_at"`
}

func (r *ballotRepository) Create(ctx context.Context, ballot *domain.Ballot) error {
	query := `
		INSERT INTO ballots (id, poll_id, user_id, choice_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.client.executor(ctx).ExecContext(ctx, query, ballot.ID, ballot.PollID, ballot.UserID, ballot.ChoiceID, ballot.CastAt)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return domain.ErrBallotExists
		}
		return domain.Internal(fmt.Errorf("failed to save ballot: %w", err))
	}
	return nil
}

func (r *ballotRepository) Exists(ctx context.Context, pollID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ballots WHERE poll_id = $1 AND user_id = $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.client.executor(ctx), &exists, query, pollID, userID); err != nil {
		return false, domain.Internal(fmt.Errorf("failed to check existing ballot: %w", err))
	}
	return exists, nil
}

func (r *ballotRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Ballot, error) {
	query := `
		SELECT id, poll_id, user_id, choice_id, cast_at
		FROM ballots
		WHERE poll_id = $1 AND user_id = $2
	`
	var row ballotRow
	if err := sqlx.GetContext(ctx, r.client.executor(ctx), &row, query, pollID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBallotNotFound
		}
		return nil, domain.Internal(fmt.Errorf("failed to get ballot: %w", err))
	}
	return &domain.Ballot{
		ID:       row.ID,
		PollID:   row.PollID,
		UserID:   row.UserID,
		ChoiceID: row.ChoiceID,
		CastAt:   row.CastAt.UTC(),
	}, nil
}
