package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/larder/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the corpus root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after each
// successful index mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a debounced reconciliation pass that removes
// stale index entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, store storage.Provider, corpusRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, corpusRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", corpusRoot))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to watcher and index their contents.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					indexNewDir(db, store, corpusRoot, absPath, logger, cb)
					continue
				}
			}

			if !storage.IsRecipeFile(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(corpusRoot, absPath)
			if relErr != nil {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(rel)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := indexFile(db, rel, data); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				if cb != nil {
					cb(kind, rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteByPath(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				if cb != nil {
					cb("deleted", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only; the new
				// path arrives as a separate Create event. Delete the
				// old entry now and schedule a reconciliation pass for
				// stragglers.
				if delErr := db.DeleteByPath(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else if cb != nil {
					cb("deleted", rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile runs a full checksum sync after rename bursts.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, cb EventCallback) {
	if err := Sync(db, store, logger); err != nil {
		logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
		return
	}
	if cb != nil {
		cb("updated", "")
	}
}

// indexNewDir indexes any recipe documents that already exist inside a newly
// created directory.
func indexNewDir(db *DB, store storage.Provider, corpusRoot, dir string, logger *slog.Logger, cb EventCallback) {
	rel, err := filepath.Rel(corpusRoot, dir)
	if err != nil {
		return
	}
	infos, err := store.List(rel)
	if err != nil {
		logger.Warn("watcher: list new dir failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	for _, fi := range infos {
		data, err := store.Read(fi.Path)
		if err != nil {
			continue
		}
		if err := indexFile(db, fi.Path, data); err != nil {
			logger.Warn("watcher: index failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
			continue
		}
		if cb != nil {
			cb("created", fi.Path)
		}
	}
}

// addDirsRecursive registers root and every subdirectory with the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
