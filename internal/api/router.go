package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/hermes"
	"github.com/Lehoufi/AHP/internal/store"
)

// RouterConfig carries the request limits and credentials of the API.
type RouterConfig struct {
	AdminToken string
	RateLimit  int
	Settings   decision.Settings
}

func NewRouter(s store.Store, h hermes.Client, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.RateLimit > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimit))
	}

	decisions := NewDecisionsHandler(s, h, cfg.Settings, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/steps", Steps)

		r.Group(func(r chi.Router) {
			r.Use(ClientIDMiddleware)

			r.Post("/decisions", decisions.Create)
			r.Get("/decisions", decisions.List)
			r.Get("/decisions/{id}", decisions.Get)

			r.Post("/decisions/{id}/nodes/{nodeID}/children", decisions.AddChildren)
			r.Delete("/decisions/{id}/nodes/{nodeID}", decisions.RemoveNode)
			r.Post("/decisions/{id}/finalize", decisions.Finalize)

			r.Get("/decisions/{id}/groups", decisions.Groups)
			r.Get("/decisions/{id}/groups/{level}/{parentID}", decisions.Group)
			r.Put("/decisions/{id}/groups/{level}/{parentID}/judgments", decisions.SubmitJudgments)
			r.Patch("/decisions/{id}/groups/{level}/{parentID}/judgments", decisions.SetJudgment)

			r.Get("/decisions/{id}/ranking", decisions.Ranking)
			r.Get("/decisions/{id}/rankings", decisions.Rankings)
			r.Get("/decisions/{id}/report", decisions.Report)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(cfg.AdminToken))
				r.Delete("/decisions/{id}", decisions.Delete)
			})
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
