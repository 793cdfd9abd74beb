package docservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, docs map[string]string) *Service {
	t.Helper()
	root, store := testutil.TestCorpus(t)
	for rel, content := range docs {
		testutil.WriteDoc(t, root, rel, content)
	}
	db := testutil.TestDB(t)
	if err := index.Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return NewService(store, db, "README.md", false)
}

func TestGetDoc(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"README.md": "# Home\n\nSee [guide](./guide.md).\n",
		"guide.md":  "# Guide\n\nBody text here.\n",
	})

	doc, err := svc.GetDoc(context.Background(), "guide.md")
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if doc.Title != "Guide" {
		t.Errorf("title = %q, want %q", doc.Title, "Guide")
	}
	if !strings.Contains(doc.HTML, "<h1") {
		t.Errorf("HTML missing rendered heading: %q", doc.HTML)
	}
	if len(doc.Backlinks) != 1 || doc.Backlinks[0] != "README.md" {
		t.Errorf("backlinks = %v, want [README.md]", doc.Backlinks)
	}
	if len(doc.Headings) != 1 || doc.Headings[0].Slug != "guide" {
		t.Errorf("headings = %v", doc.Headings)
	}
}

func TestGetDoc_NotFound(t *testing.T) {
	svc := newTestService(t, map[string]string{"README.md": "# Home\n"})

	_, err := svc.GetDoc(context.Background(), "missing.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListDocs(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"b.md":      "# Bravo\n",
		"a.md":      "# Alpha\n",
		"README.md": "# Home\n",
	})

	items, err := svc.ListDocs(context.Background())
	if err != nil {
		t.Fatalf("ListDocs: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Path != "README.md" || items[1].Path != "a.md" || items[2].Path != "b.md" {
		t.Errorf("order = %v", items)
	}
	if items[1].Title != "Alpha" {
		t.Errorf("title = %q, want Alpha", items[1].Title)
	}
}

func TestRevalidateAndLatestReport(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"README.md": "# Home\n\n[gone](./gone.md)\n",
	})

	if rep, _ := svc.LatestReport(); rep != nil {
		t.Fatal("expected no report before first run")
	}

	rep, err := svc.Revalidate(context.Background())
	if err != nil {
		t.Fatalf("Revalidate: %v", err)
	}
	if rep.Clean() {
		t.Error("expected a broken-file-link finding")
	}

	latest, at := svc.LatestReport()
	if latest != rep {
		t.Error("LatestReport should return the stored report")
	}
	if at.IsZero() {
		t.Error("validatedAt not set")
	}
}

func TestSearchAndBacklinks(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"README.md": "# Home\n\n[guide](./guide.md)\n",
		"guide.md":  "# Guide\n\nelasticity is a property of clouds\n",
	})
	ctx := context.Background()

	results, err := svc.Search(ctx, "elasticity", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "guide.md" {
		t.Errorf("results = %v", results)
	}

	bl, err := svc.Backlinks(ctx, "guide.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 1 || bl[0] != "README.md" {
		t.Errorf("backlinks = %v", bl)
	}
}

func TestGraph(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"README.md": "# Home\n\n[guide](./guide.md)\n",
		"guide.md":  "# Guide\n",
	})

	nodes, links, err := svc.Graph(context.Background())
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("nodes = %v", nodes)
	}
	if len(links) != 1 || links[0].Target != "guide.md" {
		t.Errorf("links = %v", links)
	}
}
