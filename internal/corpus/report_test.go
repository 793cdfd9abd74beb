package corpus

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

func corpusDir(t *testing.T, files map[string]string) *storage.FS {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return store
}

func TestRun_CleanCorpus(t *testing.T) {
	store := corpusDir(t, map[string]string{
		"README.md":         "# Hub\n[solid](patterns/solid.md)\n[ext](https://example.com)\n",
		"patterns/solid.md": "# SOLID\n[back](../README.md)\n",
	})
	rep, err := Run(context.Background(), store, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !rep.Clean() {
		t.Errorf("expected clean report, got %+v", rep.Findings)
	}
	if rep.Documents != 2 || rep.Links != 3 || rep.ExternalLinks != 1 {
		t.Errorf("totals = %d docs %d links %d external", rep.Documents, rep.Links, rep.ExternalLinks)
	}
	if rep.Failed(false) {
		t.Error("clean report should not fail")
	}
}

func TestRun_EmptyCorpus(t *testing.T) {
	rep, err := Run(context.Background(), corpusDir(t, nil), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Documents != 0 || !rep.Clean() || rep.Failed(false) {
		t.Errorf("empty corpus should be clean success, got %+v", rep)
	}
}

func TestRun_MissingRootIsFatal(t *testing.T) {
	_, err := storage.NewFS(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	store := corpusDir(t, map[string]string{
		"README.md": "# Hub\n[a](a.md)\n[gone](b.md)\n",
		"a.md":      "# A\n[bad](#nope)\n",
		"lone.md":   "# Lone\n",
	})

	render := func() string {
		rep, err := Run(context.Background(), store, Options{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		var buf bytes.Buffer
		if err := rep.WriteText(&buf); err != nil {
			t.Fatalf("WriteText: %v", err)
		}
		return buf.String()
	}

	first := render()
	second := render()
	if first != second {
		t.Errorf("reports differ across runs:\n%s\n---\n%s", first, second)
	}
}

func TestReport_WriteTextFormat(t *testing.T) {
	rep := &Report{
		Findings: []models.Finding{
			{Path: "a.md", Line: 3, Kind: models.FindingBrokenFileLink, Target: "./b.md", Detail: "resolved to b.md"},
			{Path: "e.md", Kind: models.FindingOrphanDocument, Detail: "no document links here"},
		},
		Documents: 2,
		Links:     1,
	}
	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	wantLines := []string{
		"a.md:3: broken-file-link ./b.md (resolved to b.md)",
		"e.md: orphan-document (no document links here)",
		"2 documents, 1 links (0 external)",
		"broken-file-link: 1",
		"orphan-document: 1",
		"2 findings",
	}
	for _, w := range wantLines {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestReport_FailedSeverity(t *testing.T) {
	warnOnly := &Report{Findings: []models.Finding{
		{Path: "e.md", Kind: models.FindingOrphanDocument},
		{Path: "f.md", Line: 2, Kind: models.FindingParseWarning},
	}}
	if !warnOnly.Failed(false) {
		t.Error("warnings fail by default")
	}
	if warnOnly.Failed(true) {
		t.Error("warnings should pass with allowWarnings")
	}

	broken := &Report{Findings: []models.Finding{
		{Path: "a.md", Line: 1, Kind: models.FindingBrokenFileLink},
		{Path: "e.md", Kind: models.FindingOrphanDocument},
	}}
	if !broken.Failed(true) {
		t.Error("broken links fail even with allowWarnings")
	}
}
