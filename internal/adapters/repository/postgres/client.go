package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/domain"
	"github.com/vncsmyrnk/inappvote/internal/metrics"
)

const (
	codeUniqueViolation      pq.ErrorCode = "23505"
	codeForeignKeyViolation  pq.ErrorCode = "23503"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

type txKey struct{}

// Client owns the connection pool and runs transactions for every
// repository in this package.
type Client struct {
	db         *sqlx.DB
	maxRetries uint64
	log        zerolog.Logger
}

func Open(ctx context.Context, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func NewClient(db *sqlx.DB, maxRetries uint64, log zerolog.Logger) *Client {
	return &Client{
		db:         db,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "postgres").Logger(),
	}
}

func (c *Client) DB() *sqlx.DB { return c.db }

// WithinTx runs fn in a read-committed transaction. Bodies lock the rows
// they read-modify-write (the GetForUpdate methods); unique keys on ballots
// and memberships catch the remaining races. Serialization failures and
// deadlocks re-run fn from the start on a fresh transaction. A call made
// while a transaction is already in ctx joins it.
func (c *Client) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := c.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			metrics.TxRetries.Inc()
			c.log.Debug().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(newTxBackOff(), c.maxRetries), ctx))
	if err != nil && isRetryable(err) {
		return domain.Internal(fmt.Errorf("transaction gave up after %d attempts: %w", attempt, err))
	}
	return err
}

func (c *Client) runTx(ctx context.Context, fn func(context.Context) error) error {
	tx, err := c.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.Internal(fmt.Errorf("failed to begin transaction: %w", err))
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.log.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Internal(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func newTxBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 0
	return b
}

// executor returns the transaction carried by ctx, or the pool.
func (c *Client) executor(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return c.db
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isRetryable(err error) bool {
	code := pqCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}
