package api

import (
	"time"

	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/models"
)

// DocDetail is the full document response type (aliased from the domain layer).
type DocDetail = docservice.DocDetail

// DocListItem is a lightweight item in a list response (aliased from the domain layer).
type DocListItem = docservice.DocListItem

// DocListResponse wraps document listings.
type DocListResponse struct {
	Docs  []DocListItem `json:"docs" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// ReportResponse wraps the latest validation report.
type ReportResponse struct {
	Findings      []models.Finding `json:"findings" validate:"required"`
	Documents     int              `json:"documents" example:"12" validate:"required"`
	Links         int              `json:"links" example:"30" validate:"required"`
	ExternalLinks int              `json:"external_links" example:"4" validate:"required"`
	Failed        bool             `json:"failed" validate:"required"`
	ValidatedAt   time.Time        `json:"validated_at" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"guides/setup.md" validate:"required"`
	Title   string `json:"title" example:"Setup" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphNode is a node in the corpus graph.
type GraphNode struct {
	ID    string `json:"id" example:"guides/setup.md" validate:"required"`
	Title string `json:"title,omitempty" example:"Setup"`
}

// GraphLink is an edge in the corpus graph.
type GraphLink struct {
	Source string `json:"source" example:"README.md" validate:"required"`
	Target string `json:"target" example:"guides/setup.md" validate:"required"`
}

// GraphResponse wraps the corpus graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Links []GraphLink `json:"links" validate:"required"`
}

// BacklinksResponse wraps the backlinks of a document.
type BacklinksResponse struct {
	Target    string   `json:"target" example:"guides/setup.md" validate:"required"`
	Backlinks []string `json:"backlinks" validate:"required"`
}
