package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func upsert(t *testing.T, db *DB, path, checksum string, targets ...string) {
	t.Helper()
	links := make([]LinkRow, len(targets))
	for i, target := range targets {
		links[i] = LinkRow{Source: path, Target: target, Kind: "relative"}
	}
	row := DocumentRow{Path: path, Title: path, Checksum: checksum, UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, "body of "+path, links); err != nil {
		t.Fatalf("UpsertDocument(%s): %v", path, err)
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "guide.md", "abc123", "other.md")

	cs, err := db.GetChecksum("guide.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestBacklinks_SortedRelativeOnly(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "z.md", "1", "b.md")
	upsert(t, db, "a.md", "2", "b.md")
	// External link to a path-looking URL must not show up as a backlink.
	row := DocumentRow{Path: "x.md", Checksum: "3", UpdatedAt: time.Now()}
	_ = db.UpsertDocument(row, "body", []LinkRow{{Source: "x.md", Target: "b.md", Kind: "external"}})

	bl, err := db.Backlinks("b.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 || bl[0] != "a.md" || bl[1] != "z.md" {
		t.Errorf("backlinks = %v, want [a.md z.md]", bl)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "del.md", "x", "target.md")

	if err := db.DeleteDocument("del.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted document still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("target.md")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertReplacesLinks(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "up.md", "1", "x.md")
	upsert(t, db, "up.md", "2", "y.md")

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("x.md")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("y.md")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestOrphans(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "README.md", "1", "a.md")
	upsert(t, db, "a.md", "2")
	upsert(t, db, "lone.md", "3", "lone.md") // self-link does not count

	orphans, err := db.Orphans("README.md")
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != "lone.md" {
		t.Errorf("orphans = %v, want [lone.md]", orphans)
	}
}

func TestGraph(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "b.md", "1", "a.md")
	upsert(t, db, "a.md", "2")

	nodes, links, err := db.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 || nodes[0].ID != "a.md" || nodes[1].ID != "b.md" {
		t.Errorf("nodes = %v", nodes)
	}
	if len(links) != 1 || links[0].Source != "b.md" || links[0].Target != "a.md" {
		t.Errorf("links = %v", links)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	upsert(t, db, "a.md", "1")
	upsert(t, db, "b.md", "2")

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(all) != 2 || all["a.md"] != "1" || all["b.md"] != "2" {
		t.Errorf("checksums = %v", all)
	}
}

func TestSearch_Fallback(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{Path: "solid.md", Title: "SOLID Principles", Checksum: "s", UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, "single responsibility principle explained", nil); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	results, err := db.Search("responsibility", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "solid.md" {
		t.Errorf("results = %v", results)
	}
}
