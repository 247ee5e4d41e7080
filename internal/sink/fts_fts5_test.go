//go:build sqlite_fts5

package sink

import (
	"context"
	"strings"
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM cards_fts`).Scan(&count); err != nil {
		t.Fatalf("cards_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	rec := mustRecord(t, KindCard, "c1", "fts", "FTS Card", "The sync provides powerful full-text search capabilities.")
	if err := db.Emit(context.Background(), rec); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !strings.Contains(results[0].Snippet, "<b>powerful</b>") {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
}

func TestFTS5_ReEmitReplacesEntry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Emit(ctx, mustRecord(t, KindCard, "c1", "a", "A", "original wording"))
	_ = db.Emit(ctx, mustRecord(t, KindCard, "c1", "a", "A", "replacement wording"))

	if res, _ := db.Search("original", 10); len(res) != 0 {
		t.Errorf("stale entry still searchable: %+v", res)
	}
	if res, _ := db.Search("replacement", 10); len(res) != 1 {
		t.Errorf("results = %+v", res)
	}
}
