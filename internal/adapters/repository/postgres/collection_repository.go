package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type collectionRepository struct {
	client *Client
}

func NewCollectionRepository(client *Client) ports.CollectionRepository {
	return &collectionRepository{client: client}
}

// membershipTables maps a membership kind to its record table and the
// counter column it drives. Only these identifiers are ever interpolated
// into SQL.
var membershipTables = map[domain.MembershipKind]struct {
	table   string
	counter string
}{
	domain.MembershipSave: {table: "collection_saves", counter: "save_count"},
	domain.MembershipLike: {table: "collection_likes", counter: "like_count"},
}

func membershipTable(kind domain.MembershipKind) (string, string, error) {
	t, ok := membershipTables[kind]
	if !ok {
		return "", "", domain.Errorf(domain.KindInvalidArgument, "unknown membership kind %q", kind)
	}
	return t.table, t.counter, nil
}

func (r *collectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	query := `
		SELECT id, creator_id, title, save_count, like_count, view_count, created_at
		FROM collections
		WHERE id = $1
	`
	var c domain.Collection
	row := r.client.executor(ctx).QueryRowxContext(ctx, query, id)
	if err := row.Scan(&c.ID, &c.CreatorID, &c.Title, &c.SaveCount, &c.LikeCount, &c.ViewCount, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, domain.Internal(fmt.Errorf("failed to get collection: %w", err))
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func (r *collectionRepository) AddMembership(ctx context.Context, m *domain.Membership) (bool, error) {
	table, _, err := membershipTable(m.Kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, collection_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`, table)

	result, err := r.client.executor(ctx).ExecContext(ctx, query, m.ID, m.UserID, m.CollectionID, m.CreatedAt)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return false, domain.ErrCollectionNotFound
		}
		return false, domain.Internal(fmt.Errorf("failed to insert %s: %w", m.Kind, err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.Internal(fmt.Errorf("rows affected: %w", err))
	}
	return rows > 0, nil
}

func (r *collectionRepository) RemoveMembership(ctx context.Context, kind domain.MembershipKind, userID, collectionID uuid.UUID) (bool, error) {
	table, _, err := membershipTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND collection_id = $2`, table)

	result, err := r.client.executor(ctx).ExecContext(ctx, query, userID, collectionID)
	if err != nil {
		return false, domain.Internal(fmt.Errorf("failed to delete %s: %w", kind, err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, domain.Internal(fmt.Errorf("rows affected: %w", err))
	}
	return rows > 0, nil
}

func (r *collectionRepository) AdjustCounter(ctx context.Context, kind domain.MembershipKind, collectionID uuid.UUID, delta int64) (int64, error) {
	_, counter, err := membershipTable(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`UPDATE collections SET %[1]s = %[1]s + $1 WHERE id = $2 RETURNING %[1]s`, counter)

	var count int64
	if err := sqlx.GetContext(ctx, r.client.executor(ctx), &count, query, delta, collectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrCollectionNotFound
		}
		return 0, domain.Internal(fmt.Errorf("failed to adjust %s: %w", counter, err))
	}
	return count, nil
}

// IncrementViewCount always runs outside any transaction.
func (r *collectionRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result, err := r.client.DB().ExecContext(ctx, `UPDATE collections SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return expectOneRow(result, domain.ErrCollectionNotFound)
}
