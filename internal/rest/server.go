// Package rest exposes a read-only HTTP view of the reputation ledger.
package rest

import (
	"net/http"
	"time"

	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/metrics"
	"github.com/doom2286/Foxcom/internal/rest/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestTimeout bounds every API request.
const RequestTimeout = 15 * time.Second

// NewServer creates the REST API router.
func NewServer(db database.Client, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	reputationHandler := handler.NewReputationHandler(db, logger)
	statusHandler := handler.NewStatusHandler(db, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.Get("/healthz", statusHandler.Healthz)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", statusHandler.GetStatus)
		r.Get("/leaderboard", reputationHandler.GetLeaderboard)
		r.Get("/users/{id}/reputation", reputationHandler.GetReputation)
		r.Get("/users/{id}/quota", reputationHandler.GetQuota)
	})

	return r
}
