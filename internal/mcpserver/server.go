// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes corpus validation tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/corpus"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
)

// Server wraps the MCP server with corpus tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    *index.DB
	hub   string
}

// New creates a new MCP server with all corpus tools registered.
func New(store storage.Provider, db *index.DB, hub string) *Server {
	s := &Server{store: store, db: db, hub: hub}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_corpus",
		mcp.WithDescription("Run the full integrity check over the corpus and return the "+
			"plain-text report: broken links, broken anchors, duplicate slugs, orphans, "+
			"and parse warnings."),
	), s.validateCorpus)

	s.mcp.AddTool(mcp.NewTool("list_findings",
		mcp.WithDescription("Run the integrity check and return findings as JSON, "+
			"optionally filtered by kind."),
		mcp.WithString("kind", mcp.Description("Optional finding kind filter "+
			"(broken-file-link, broken-anchor-link, duplicate-slug, orphan-document, parse-warning)")),
	), s.listFindings)

	s.mcp.AddTool(mcp.NewTool("read_doc",
		mcp.WithDescription("Read the full content of a Markdown document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. guides/setup.md)")),
	), s.readDoc)

	s.mcp.AddTool(mcp.NewTool("search_docs",
		mcp.WithDescription("Full-text search through document content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocs)

	s.mcp.AddTool(mcp.NewTool("list_docs",
		mcp.WithDescription("List all documents or documents in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocs)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all documents that link to the specified document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the document to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_authoring_guide",
		mcp.WithDescription("Returns the linking and heading conventions that keep a corpus "+
			"clean under validation. Call this before writing new documents."),
	), s.getAuthoringGuide)

	// Resource: authoring guide.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://authoring-guide", "Authoring Guide",
			mcp.WithResourceDescription("Linking and heading conventions for a clean corpus."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readAuthoringGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) validateCorpus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := corpus.Run(ctx, s.store, corpus.Options{Hub: s.hub})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) listFindings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := corpus.Run(ctx, s.store, corpus.Options{Hub: s.hub})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	findings := rep.Findings
	if kind, kerr := req.RequireString("kind"); kerr == nil && kind != "" {
		filtered := findings[:0:0]
		for _, f := range findings {
			if string(f.Kind) == kind {
				filtered = append(filtered, f)
			}
		}
		findings = filtered
	}

	out, _ := json.MarshalIndent(findings, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) searchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.db.Backlinks(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) getAuthoringGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(AuthoringGuide), nil
}

func (s *Server) readAuthoringGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://authoring-guide",
			MIMEType: "text/markdown",
			Text:     AuthoringGuide,
		},
	}, nil
}
