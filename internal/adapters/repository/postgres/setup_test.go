package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/inappvote/internal/adapters/repository/postgres"
)

type testStore struct {
	db     *sqlx.DB
	client *postgres.Client
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

func setupStore(t *testing.T) *testStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, dsn, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := postgres.Open(ctx, dsn, 20)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db))

	return &testStore{
		db:     db,
		client: postgres.NewClient(db, 10, zerolog.Nop()),
	}
}

func (s *testStore) addUser(t *testing.T, balance int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, name, balance) VALUES ($1, $2, $3, $4)`,
		id, fmt.Sprintf("user-%s@example.com", id), "User", balance,
	)
	require.NoError(t, err)
	return id
}

func (s *testStore) addCollection(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := s.db.Exec(
		`INSERT INTO collections (id, creator_id, title) VALUES ($1, $2, $3)`,
		id, uuid.New(), "Collection",
	)
	require.NoError(t, err)
	return id
}

func (s *testStore) balance(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var b int64
	require.NoError(t, s.db.Get(&b, `SELECT balance FROM users WHERE id = $1`, userID))
	return b
}

func (s *testStore) count(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Get(&n, query, args...))
	return n
}
