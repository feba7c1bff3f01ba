package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vncsmyrnk/inappvote/internal/adapters/auth/jwt"
	"github.com/vncsmyrnk/inappvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/inappvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/inappvote/internal/config"
	"github.com/vncsmyrnk/inappvote/internal/core/services"
	"github.com/vncsmyrnk/inappvote/internal/logger"
	"github.com/vncsmyrnk/inappvote/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("", "")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN(), cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	client := postgres.NewClient(db, cfg.TxMaxRetries, log)

	pollRepo := postgres.NewPollRepository(client)
	userRepo := postgres.NewUserRepository(client)
	ballotRepo := postgres.NewBallotRepository(client)
	collectionRepo := postgres.NewCollectionRepository(client)

	clock := services.SystemClock
	pollSvc := services.NewPollService(pollRepo, clock, log)
	voteSvc := services.NewVoteService(client, pollRepo, userRepo, ballotRepo, clock, log)
	collectionSvc := services.NewCollectionService(client, collectionRepo, clock, cfg.ViewCountTimeout, log)
	userSvc := services.NewUserService(userRepo)

	handler := http.NewHandler(http.Handlers{
		Poll:       http.NewPollHandler(pollSvc),
		Vote:       http.NewVoteHandler(voteSvc),
		Collection: http.NewCollectionHandler(collectionSvc),
		User:       http.NewUserHandler(userSvc),
	}, http.RouterConfig{
		Verifier:       jwt.NewVerifier(cfg.JWTSecret),
		Gatherer:       registry,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		os.Exit(1)
	}
	if err := collectionSvc.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending view increments dropped")
	}
}
