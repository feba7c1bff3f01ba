package main

import (
	"context"
	"os"
	"time"

	"github.com/vncsmyrnk/inappvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/inappvote/internal/config"
	"github.com/vncsmyrnk/inappvote/internal/logger"
)

// Usage:
//
//	migrations              apply every up migration
//	migrations 000001_init.down
func main() {
	log := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	pg, err := config.LoadPostgres()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, pg.DSN(), 1)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	if len(os.Args) < 2 {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("all migrations applied")
		return
	}

	migrationName := os.Args[1]
	if err := postgres.MigrateOne(ctx, db, migrationName); err != nil {
		log.Fatal().Err(err).Str("migration", migrationName).Msg("migration failed")
	}
	log.Info().Str("migration", migrationName).Msg("migration file executed successfully")
}
