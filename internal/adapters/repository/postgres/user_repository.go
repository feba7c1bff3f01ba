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

type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) ports.UserRepository {
	return &UserRepository{client: client}
}

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, id, false)
}

func (r *UserRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, id, true)
}

func (r *UserRepository) get(ctx context.Context, id uuid.UUID, forUpdate bool) (*domain.User, error) {
	query := `SELECT id, email, name, balance, created_at FROM users WHERE id = $1 AND deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row userRow
	if err := sqlx.GetContext(ctx, r.client.executor(ctx), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	return &domain.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		Balance:   row.Balance,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}

func (r *UserRepository) DebitPoints(ctx context.Context, id uuid.UUID, amount int64) error {
	exec := r.client.executor(ctx)

	query := `
		UPDATE users
		SET balance = balance - $1
		WHERE id = $2 AND deleted_at IS NULL AND balance >= $1
	`
	result, err := exec.ExecContext(ctx, query, amount, id)
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to debit points: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if n > 0 {
		return nil
	}

	if _, err := r.get(ctx, id, false); err != nil {
		return err
	}
	return domain.ErrInsufficientPoints
}
