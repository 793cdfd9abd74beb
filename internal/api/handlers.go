package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after /api/docs/).
// Supports encoded slashes from OpenAPI clients (e.g. guides%2Fsetup.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GetReport handles GET /api/report.
//
//	@Summary		Get the latest validation report
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, at := h.svc.LatestReport()
	if rep == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no validation run yet"))
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Findings:      rep.Findings,
		Documents:     rep.Documents,
		Links:         rep.Links,
		ExternalLinks: rep.ExternalLinks,
		Failed:        rep.Failed(h.svc.AllowWarnings()),
		ValidatedAt:   at,
	})
}

// GetFindings handles GET /api/findings: just the findings of the
// latest report, optionally filtered by kind.
//
//	@Summary		List findings from the latest validation run
//	@Tags			report
//	@Produce		json
//	@Param			kind	query		string	false	"Finding kind filter"
//	@Success		200		{array}		models.Finding
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/findings [get]
func (h *Handler) GetFindings(w http.ResponseWriter, r *http.Request) {
	rep, _ := h.svc.LatestReport()
	if rep == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no validation run yet"))
		return
	}
	findings := rep.Findings
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filtered := make([]models.Finding, 0, len(findings))
		for _, f := range findings {
			if string(f.Kind) == kind {
				filtered = append(filtered, f)
			}
		}
		findings = filtered
	}
	if findings == nil {
		findings = []models.Finding{}
	}
	writeJSON(w, http.StatusOK, findings)
}

// Validate handles POST /api/validate: runs a fresh validation pass and
// returns the new report.
//
//	@Summary		Run validation and return the report
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	ReportResponse
//	@Security		BearerAuth
//	@Router			/validate [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Revalidate(r.Context())
	if err != nil {
		slog.Error("validate failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	_, at := h.svc.LatestReport()
	writeJSON(w, http.StatusOK, ReportResponse{
		Findings:      rep.Findings,
		Documents:     rep.Documents,
		Links:         rep.Links,
		ExternalLinks: rep.ExternalLinks,
		Failed:        rep.Failed(h.svc.AllowWarnings()),
		ValidatedAt:   at,
	})
}

// ListDocs handles GET /api/docs.
//
//	@Summary		List all documents
//	@Tags			docs
//	@Produce		json
//	@Success		200	{object}	DocListResponse
//	@Security		BearerAuth
//	@Router			/docs [get]
func (h *Handler) ListDocs(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDocs(r.Context())
	if err != nil {
		slog.Error("list docs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []DocListItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"docs":  items,
		"total": len(items),
	})
}

// GetDoc handles GET /api/docs/*.
//
//	@Summary		Get a single document by path
//	@Tags			docs
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/docs/{path} [get]
func (h *Handler) GetDoc(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.GetDoc(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get doc failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Backlinks handles GET /api/backlinks/*.
//
//	@Summary		List documents linking to the given path
//	@Tags			graph
//	@Produce		json
//	@Param			path	path		string	true	"Target document path"
//	@Success		200		{object}	BacklinksResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/backlinks/{path} [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	bl, err := h.svc.Backlinks(r.Context(), path)
	if err != nil {
		slog.Error("backlinks failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if bl == nil {
		bl = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"target":    path,
		"backlinks": bl,
	})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the corpus link graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, links, err := h.svc.Graph(r.Context())
	if err != nil {
		slog.Error("graph failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": nodes,
		"links": links,
	})
}
