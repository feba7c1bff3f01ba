package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/inappvote/internal/core/ports"
)

type Handlers struct {
	Poll       *PollHandler
	Vote       *VoteHandler
	Collection *CollectionHandler
	User       *UserHandler
}

type RouterConfig struct {
	Verifier       ports.IdentityVerifier
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         zerolog.Logger
}

func NewHandler(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	authenticate := Authenticate(cfg.Verifier)

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Poll.ListPolls)
			r.Get("/{id}", h.Poll.GetPoll)
			r.Get("/{id}/ranking", h.Poll.GetRanking)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/{id}/ballots", h.Vote.CastBallot)
				r.Get("/{id}/my-ballot", h.Vote.GetMyBallot)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate, RequireAdmin)
				r.Post("/", h.Poll.CreatePoll)
				r.Patch("/{id}", h.Poll.UpdatePoll)
				r.Delete("/{id}", h.Poll.DeletePoll)
			})
		})

		r.Route("/collections/{id}", func(r chi.Router) {
			r.Get("/", h.Collection.GetCollection)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Put("/save", h.Collection.ToggleSave)
				r.Put("/like", h.Collection.ToggleLike)
			})
		})

		r.With(authenticate).Get("/me", h.User.GetMe)
	})

	return r
}
