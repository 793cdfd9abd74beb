package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T, docs map[string]string) (*Server, storage.Provider) {
	t.Helper()

	root, store := testutil.TestCorpus(t)
	for rel, content := range docs {
		testutil.WriteDoc(t, root, rel, content)
	}

	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := index.Sync(db, store, logger); err != nil {
		t.Fatal(err)
	}

	return New(store, db, "README.md"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "validate_corpus":
		result, err = srv.validateCorpus(ctx, req)
	case "list_findings":
		result, err = srv.listFindings(ctx, req)
	case "read_doc":
		result, err = srv.readDoc(ctx, req)
	case "search_docs":
		result, err = srv.searchDocs(ctx, req)
	case "list_docs":
		result, err = srv.listDocs(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_authoring_guide":
		result, err = srv.getAuthoringGuide(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestValidateCorpus_Clean(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n\n[guide](./guide.md)\n",
		"guide.md":  "# Guide\n",
	})

	r := callTool(t, srv, "validate_corpus", nil)
	text := resultText(r)
	if !strings.Contains(text, "no findings") {
		t.Errorf("report = %q, want clean", text)
	}
	if !strings.Contains(text, "2 documents") {
		t.Errorf("report missing totals: %q", text)
	}
}

func TestValidateCorpus_BrokenLink(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n\n[gone](./gone.md)\n",
	})

	r := callTool(t, srv, "validate_corpus", nil)
	text := resultText(r)
	if !strings.Contains(text, "broken-file-link") {
		t.Errorf("report = %q, want broken-file-link", text)
	}
}

func TestListFindings_KindFilter(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n\n[gone](./gone.md)\n",
		"stray.md":  "# Stray\n",
	})

	r := callTool(t, srv, "list_findings", map[string]interface{}{"kind": "orphan-document"})
	text := resultText(r)
	if !strings.Contains(text, "stray.md") {
		t.Errorf("filtered findings = %q, want stray.md orphan", text)
	}
	if strings.Contains(text, "broken-file-link") {
		t.Errorf("filter leaked other kinds: %q", text)
	}
}

func TestReadDoc(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\nHello",
	})

	r := callTool(t, srv, "read_doc", map[string]interface{}{"path": "README.md"})
	if resultText(r) != "# Home\nHello" {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestReadDocMissing(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"README.md": "# Home\n"})
	r := callTool(t, srv, "read_doc", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing document")
	}
}

func TestSearchDocs(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n",
		"guide.md":  "# Guide\n\nkubernetes deployment walkthrough\n",
	})

	r := callTool(t, srv, "search_docs", map[string]interface{}{"query": "kubernetes"})
	if !strings.Contains(resultText(r), "guide.md") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestListDocs(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n",
		"a.md":      "# A\n",
	})

	r := callTool(t, srv, "list_docs", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "README.md") || !strings.Contains(text, "a.md") {
		t.Errorf("list = %q", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t, map[string]string{
		"README.md": "# Home\n\n[guide](./guide.md)\n",
		"guide.md":  "# Guide\n",
	})

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "guide.md"})
	if resultText(r) != "README.md" {
		t.Errorf("backlinks = %q, want README.md", resultText(r))
	}
}

func TestAuthoringGuide(t *testing.T) {
	srv, _ := testServer(t, map[string]string{"README.md": "# Home\n"})
	r := callTool(t, srv, "get_authoring_guide", nil)
	if !strings.Contains(resultText(r), "Authoring Guide") {
		t.Error("guide text missing")
	}
}
