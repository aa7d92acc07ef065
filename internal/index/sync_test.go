package index

import (
	"context"
	"log/slog"
	"testing"

	"github.com/starford/larder/internal/storage"
	"github.com/starford/larder/internal/store"
)

func testCorpus(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestSync_IndexesAndRemovesStale(t *testing.T) {
	db := testDB(t)
	fs := testCorpus(t)
	logger := slog.Default()

	if err := fs.Write("burger.yaml", []byte("title: Smash Burger\nvisibility:\n  public: true\n")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Write("sauces/brine.yaml", []byte("id: brine\ntitle: Pickle Brine\n")); err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, fs, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	all, err := db.ListRecipes(context.Background(), store.Scope{All: true})
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("indexed %d recipes, want 2", len(all))
	}

	// Unchanged files are skipped, removed files leave the index.
	if err := fs.Delete("sauces/brine.yaml"); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, fs, logger); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	all, _ = db.ListRecipes(context.Background(), store.Scope{All: true})
	if len(all) != 1 || all[0].ID != "burger" {
		t.Errorf("after delete: %+v, want [burger]", all)
	}
}

func TestSync_InvalidDocumentSkipped(t *testing.T) {
	db := testDB(t)
	fs := testCorpus(t)

	if err := fs.Write("bad.yaml", []byte("id: bad\n")); err != nil { // no title
		t.Fatal(err)
	}
	if err := Sync(db, fs, slog.Default()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	all, _ := db.ListRecipes(context.Background(), store.Scope{All: true})
	if len(all) != 0 {
		t.Errorf("indexed %d recipes, want 0", len(all))
	}
}
