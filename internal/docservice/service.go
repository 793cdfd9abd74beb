// Package docservice coordinates storage, index, and validation for the
// serve-mode API and the MCP server.
package docservice

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/corpus"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// DocDetail is the full representation of a document.
type DocDetail struct {
	Path        string           `json:"path"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	HTML        string           `json:"html"`
	Checksum    string           `json:"checksum"`
	Frontmatter map[string]any   `json:"frontmatter,omitempty"`
	Headings    []models.Heading `json:"headings"`
	Backlinks   []string         `json:"backlinks"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DocListItem is a lightweight item in a list response.
type DocListItem struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Checksum string `json:"checksum"`
}

// Service serves read-only corpus queries and keeps the latest
// validation report. The corpus itself is never mutated through it.
type Service struct {
	store         storage.Provider
	db            *index.DB
	hub           string
	allowWarnings bool
	md            goldmark.Markdown

	mu          sync.RWMutex
	report      *corpus.Report
	validatedAt time.Time
}

// NewService creates a document service. hub names the entry document
// exempt from orphan checks.
func NewService(store storage.Provider, db *index.DB, hub string, allowWarnings bool) *Service {
	return &Service{
		store:         store,
		db:            db,
		hub:           hub,
		allowWarnings: allowWarnings,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Revalidate runs the full validation pipeline and stores the result as
// the latest report.
func (s *Service) Revalidate(ctx context.Context) (*corpus.Report, error) {
	rep, err := corpus.Run(ctx, s.store, corpus.Options{Hub: s.hub})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.report = rep
	s.validatedAt = time.Now()
	s.mu.Unlock()

	return rep, nil
}

// LatestReport returns the most recent validation report and its
// timestamp, or nil if no run has completed yet.
func (s *Service) LatestReport() (*corpus.Report, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.validatedAt
}

// AllowWarnings reports whether warning-class findings fail a run.
func (s *Service) AllowWarnings() bool { return s.allowWarnings }

// GetDoc reads a document, parses it, renders it to HTML, and enriches
// it with backlinks from the index.
func (s *Service) GetDoc(_ context.Context, path string) (*DocDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	res := parser.Parse(data)

	var html bytes.Buffer
	if err := s.md.Convert([]byte(res.Body), &html); err != nil {
		return nil, err
	}

	bl, err := s.db.Backlinks(path)
	if err != nil {
		return nil, err
	}

	return &DocDetail{
		Path:        path,
		Title:       res.Title,
		Content:     string(data),
		HTML:        html.String(),
		Checksum:    checksum.Sum(data),
		Frontmatter: res.Frontmatter,
		Headings:    nonNilSlice(res.Headings),
		Backlinks:   nonNilSlice(bl),
		UpdatedAt:   time.Now(),
	}, nil
}

// ListDocs returns all indexed documents sorted by path.
func (s *Service) ListDocs(_ context.Context) ([]DocListItem, error) {
	rows, err := s.db.ListDocuments()
	if err != nil {
		return nil, err
	}
	items := make([]DocListItem, len(rows))
	for i, r := range rows {
		items[i] = DocListItem{Path: r.Path, Title: r.Title, Checksum: r.Checksum}
	}
	return items, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Backlinks returns all document paths that link to the given target.
func (s *Service) Backlinks(_ context.Context, target string) ([]string, error) {
	return s.db.Backlinks(target)
}

// Graph returns all nodes and links for graph visualization.
func (s *Service) Graph(_ context.Context) ([]index.GraphNode, []index.GraphLink, error) {
	return s.db.Graph()
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
