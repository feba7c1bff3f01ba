package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type pollRepository struct {
	client *Client
}

func NewPollRepository(client *Client) ports.PollRepository {
	return &pollRepository{
		client: client,
	}
}

type pollRow struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	StartAt        time.Time `db:"start_at"`
	EndAt          time.Time `db:"end_at"`
	RequiredPoints int64     `db:"required_points"`
	Status         string    `db:"status"`
	TotalVotes     int64     `db:"total_votes"`
	CoverImageURL  *string   `db:"cover_image_url"`
	Featured       bool      `db:"featured"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type choiceRow struct {
	PollID    uuid.UUID `db:"poll_id"`
	ID        uuid.UUID `db:"id"`
	Position  int       `db:"position"`
	Label     string    `db:"label"`
	VoteCount int64     `db:"vote_count"`
}

const pollColumns = `id, title, description, start_at, end_at, required_points, status,
	total_votes, cover_image_url, featured, created_at, updated_at`

func (row pollRow) toDomain(choices []choiceRow) *domain.Poll {
	p := &domain.Poll{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		StartAt:        row.StartAt.UTC(),
		EndAt:          row.EndAt.UTC(),
		RequiredPoints: row.RequiredPoints,
		Status:         domain.PollStatus(row.Status),
		TotalVotes:     row.TotalVotes,
		CoverImageURL:  row.CoverImageURL,
		Featured:       row.Featured,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
		Choices:        make([]domain.Choice, 0, len(choices)),
	}
	for _, c := range choices {
		p.Choices = append(p.Choices, domain.Choice{
			ID:        c.ID,
			PollID:    c.PollID,
			Label:     c.Label,
			Position:  c.Position,
			VoteCount: c.VoteCount,
		})
	}
	return p
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	return r.client.WithinTx(ctx, func(txCtx context.Context) error {
		exec := r.client.executor(txCtx)

		queryPoll := `
			INSERT INTO polls (` + pollColumns + `)
			VALUES (:id, :title, :description, :start_at, :end_at, :required_points, :status,
				:total_votes, :cover_image_url, :featured, :created_at, :updated_at)
		`
		row := pollRow{
			ID:             poll.ID,
			Title:          poll.Title,
			Description:    poll.Description,
			StartAt:        poll.StartAt,
			EndAt:          poll.EndAt,
			RequiredPoints: poll.RequiredPoints,
			Status:         string(poll.Status),
			TotalVotes:     poll.TotalVotes,
			CoverImageURL:  poll.CoverImageURL,
			Featured:       poll.Featured,
			CreatedAt:      poll.CreatedAt,
			UpdatedAt:      poll.UpdatedAt,
		}
		if _, err := sqlx.NamedExecContext(txCtx, exec, queryPoll, row); err != nil {
			return domain.Internal(fmt.Errorf("failed to insert poll: %w", err))
		}

		queryChoice := `
			INSERT INTO poll_choices (poll_id, id, position, label, vote_count)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, c := range poll.Choices {
			if _, err := exec.ExecContext(txCtx, queryChoice, poll.ID, c.ID, c.Position, c.Label, c.VoteCount); err != nil {
				return domain.Internal(fmt.Errorf("failed to insert choice: %w", err))
			}
		}
		return nil
	})
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return r.get(ctx, id, false)
}

func (r *pollRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return r.get(ctx, id, true)
}

func (r *pollRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	exec := r.client.executor(ctx)

	var row pollRow
	if err := sqlx.GetContext(ctx, exec, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, domain.Internal(fmt.Errorf("failed to get poll: %w", err))
	}

	choices, err := r.fetchChoices(ctx, exec, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return row.toDomain(choices[id]), nil
}

func (r *pollRepository) List(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls`
	var args []any

	if filter.Status != nil {
		args = append(args, filter.Now)
		switch *filter.Status {
		case domain.StatusUpcoming:
			query += ` WHERE start_at > $1`
		case domain.StatusActive:
			query += ` WHERE start_at <= $1 AND end_at > $1`
		case domain.StatusEnded:
			query += ` WHERE end_at <= $1`
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	exec := r.client.executor(ctx)

	var rows []pollRow
	if err := sqlx.SelectContext(ctx, exec, &rows, query, args...); err != nil {
		return nil, domain.Internal(fmt.Errorf("failed to list polls: %w", err))
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	choices, err := r.fetchChoices(ctx, exec, ids)
	if err != nil {
		return nil, err
	}

	polls := make([]*domain.Poll, 0, len(rows))
	for _, row := range rows {
		polls = append(polls, row.toDomain(choices[row.ID]))
	}
	return polls, nil
}

func (r *pollRepository) fetchChoices(ctx context.Context, exec sqlx.ExtContext, pollIDs []uuid.UUID) (map[uuid.UUID][]choiceRow, error) {
	out := make(map[uuid.UUID][]choiceRow, len(pollIDs))
	if len(pollIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(pollIDs))
	for i, id := range pollIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT poll_id, id, position, label, vote_count
		FROM poll_choices
		WHERE poll_id = ANY($1::uuid[])
		ORDER BY poll_id, position
	`
	var rows []choiceRow
	if err := sqlx.SelectContext(ctx, exec, &rows, query, pq.Array(ids)); err != nil {
		return nil, domain.Internal(fmt.Errorf("failed to get poll choices: %w", err))
	}
	for _, c := range rows {
		out[c.PollID] = append(out[c.PollID], c)
	}
	return out, nil
}

func (r *pollRepository) UpdateMetadata(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $1, description = $2, start_at = $3, end_at = $4, required_points = $5,
		    status = $6, cover_image_url = $7, featured = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.client.executor(ctx).ExecContext(ctx, query,
		poll.Title, poll.Description, poll.StartAt, poll.EndAt, poll.RequiredPoints,
		string(poll.Status), poll.CoverImageURL, poll.Featured, poll.UpdatedAt, poll.ID,
	)
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to update poll: %w", err))
	}
	return expectOneRow(result, domain.ErrPollNotFound)
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.client.executor(ctx).ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to delete poll: %w", err))
	}
	return expectOneRow(result, domain.ErrPollNotFound)
}

func (r *pollRepository) IncrementTally(ctx context.Context, pollID, choiceID uuid.UUID) error {
	exec := r.client.executor(ctx)

	result, err := exec.ExecContext(ctx,
		`UPDATE poll_choices SET vote_count = vote_count + 1 WHERE poll_id = $1 AND id = $2`,
		pollID, choiceID,
	)
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to increment choice: %w", err))
	}
	if err := expectOneRow(result, domain.ErrUnknownChoice); err != nil {
		return err
	}

	result, err = exec.ExecContext(ctx,
		`UPDATE polls SET total_votes = total_votes + 1, updated_at = NOW() WHERE id = $1`,
		pollID,
	)
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to increment total votes: %w", err))
	}
	return expectOneRow(result, domain.ErrPollNotFound)
}

func (r *pollRepository) ReconcileStatuses(ctx context.Context, now time.Time) (int64, error) {
	query := `
		WITH derived AS (
			SELECT id,
			       CASE
			           WHEN $1::timestamptz < start_at THEN 'upcoming'
			           WHEN $1::timestamptz < end_at THEN 'active'
			           ELSE 'ended'
			       END AS status
			FROM polls
		)
		UPDATE polls p
		SET status = d.status, updated_at = $1::timestamptz
		FROM derived d
		WHERE p.id = d.id AND p.status <> d.status
	`
	result, err := r.client.executor(ctx).ExecContext(ctx, query, now)
	if err != nil {
		return 0, domain.Internal(fmt.Errorf("failed to reconcile poll statuses: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, domain.Internal(fmt.Errorf("failed to get rows affected: %w", err))
	}
	return n, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if n == 0 {
		return notFound
	}
	return nil
}
