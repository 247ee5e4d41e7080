package sink

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/guru-sync/internal/apperr"
)

func testDB(t *testing.T) *SQLite {
	t.Helper()
	f, err := os.CreateTemp("", "guru-sync-sink-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := OpenSQLite(f.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustRecord(t *testing.T, kind, id, slug, title, text string) Record {
	t.Helper()
	rec, err := NewRecord(kind, id, slug, title, text, map[string]string{"id": id, "title": title})
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestSQLite_UpsertByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.Emit(ctx, mustRecord(t, KindCard, "c1", "first", "First", "old body")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := db.Emit(ctx, mustRecord(t, KindCard, "c1", "first-renamed", "First Renamed", "new body")); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	cards, err := db.List(KindCard)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("rows = %d, want 1", len(cards))
	}
	if cards[0].Title != "First Renamed" || cards[0].Text != "new body" {
		t.Errorf("row = %+v", cards[0])
	}
}

func TestSQLite_ListByKind(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for _, rec := range []Record{
		mustRecord(t, KindCard, "c2", "zeta", "Zeta", ""),
		mustRecord(t, KindCard, "c1", "alpha", "Alpha", ""),
		mustRecord(t, KindBoard, "b1", "", "Board", ""),
		mustRecord(t, KindCollection, "col1", "", "Collection", ""),
	} {
		if err := db.Emit(ctx, rec); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	cards, _ := db.List(KindCard)
	if len(cards) != 2 || cards[0].Title != "Alpha" || cards[1].Title != "Zeta" {
		t.Errorf("cards = %+v", cards)
	}
	boards, _ := db.List(KindBoard)
	if len(boards) != 1 || boards[0].SourceID != "b1" {
		t.Errorf("boards = %+v", boards)
	}
	if string(boards[0].Payload) != `{"id":"b1","title":"Board"}` {
		t.Errorf("payload = %s", boards[0].Payload)
	}
}

func TestSQLite_GetBySlug(t *testing.T) {
	db := testDB(t)
	rec := mustRecord(t, KindCard, "c1", "hello-world", "Hello World", "body")
	if err := db.Emit(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetBySlug("hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != rec.ID || got.Digest != rec.Digest {
		t.Errorf("got %+v", got)
	}

	if _, err := db.GetBySlug("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLite_Search(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	_ = db.Emit(ctx, mustRecord(t, KindCard, "c1", "expenses", "Expense Policy", "Submit receipts within 30 days."))
	_ = db.Emit(ctx, mustRecord(t, KindCard, "c2", "pto", "Time Off", "Request leave in the HR portal."))
	_ = db.Emit(ctx, mustRecord(t, KindBoard, "b1", "", "receipts board", ""))

	results, err := db.Search("receipts", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "expenses" {
		t.Errorf("results = %+v", results)
	}
}
