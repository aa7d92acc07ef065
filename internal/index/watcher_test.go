package index

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/storage"
)

func TestWatch_IndexesNewFile(t *testing.T) {
	db := testDB(t)
	root := t.TempDir()
	fs, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, db, fs, root, slog.Default(), nil)
	}()

	// Give the watcher a moment to register directories.
	time.Sleep(100 * time.Millisecond)

	if err := fs.Write("brine.yaml", []byte("id: brine\ntitle: Pickle Brine\n")); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		_, err := db.GetRecipe(ctx, "brine")
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("GetRecipe: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher did not index new file in time")
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}
