package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/vncsmyrnk/inappvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/inappvote/internal/config"
	"github.com/vncsmyrnk/inappvote/internal/core/services"
	"github.com/vncsmyrnk/inappvote/internal/logger"
)

func main() {
	log := logger.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	pg, err := config.LoadPostgres()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var timeout time.Duration
	flag.StringVar(&pg.Host, "db-host", pg.Host, "Database host")
	flag.StringVar(&pg.Port, "db-port", pg.Port, "Database port")
	flag.StringVar(&pg.User, "db-user", pg.User, "Database user")
	flag.StringVar(&pg.Password, "db-pass", pg.Password, "Database password")
	flag.StringVar(&pg.DB, "db-name", pg.DB, "Database name")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Job timeout")
	flag.Parse()

	// Bound the job so a stuck lock cannot keep it running forever.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := postgres.Open(ctx, pg.DSN(), 1)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	pollRepo := postgres.NewPollRepository(postgres.NewClient(db, 0, log))
	statusService := services.NewStatusService(pollRepo, services.SystemClock, log)

	log.Info().Msg("starting poll status reconciliation")

	if _, err := statusService.Reconcile(ctx); err != nil {
		log.Fatal().Err(err).Msg("poll status reconciliation failed")
	}
}
