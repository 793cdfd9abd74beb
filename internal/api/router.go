package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Validation report.
	r.Get("/report", h.GetReport)
	r.Get("/findings", h.GetFindings)
	r.Post("/validate", h.Validate)

	// Documents (read-only).
	r.Get("/docs", h.ListDocs)
	r.Get("/docs/*", h.GetDoc)

	// Search.
	r.Get("/search", h.Search)

	// Graph and backlinks.
	r.Get("/graph", h.Graph)
	r.Get("/backlinks/*", h.Backlinks)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
