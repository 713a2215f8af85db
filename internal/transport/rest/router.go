package rest

import (
	"log/slog"
	"net/http"

	"github.com/mh2des/arabic-dictionary-api/internal/transport/middleware"
)

// NewRouter builds the HTTP mux with all routes and the common
// middleware chain (request id, logging, panic recovery).
func NewRouter(logger *slog.Logger, entries *EntriesHandler, health *HealthHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)

	mux.HandleFunc("GET /v1/search", entries.Search)
	mux.HandleFunc("GET /v1/entries/{id}", entries.Get)
	mux.HandleFunc("GET /v1/entries/{id}/provenance", entries.Provenance)
	mux.HandleFunc("PUT /v1/entries/{id}/review", entries.SetReviewed)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)
	return chain(mux)
}
