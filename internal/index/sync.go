package index

import (
	"log/slog"

	"github.com/starford/larder/internal/parser"
	"github.com/starford/larder/internal/storage"
)

// Sync walks the corpus directory and brings the index up to date:
//   - new/changed documents are parsed and upserted
//   - documents removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	infos, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(infos))
	for _, fi := range infos {
		disk[fi.Path] = struct{}{}

		if checksums[fi.Path] == fi.Checksum {
			continue
		}

		data, err := store.Read(fi.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, fi.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", fi.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteByPath(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the DB.
func indexFile(db *DB, path string, data []byte) error {
	r, err := parser.Parse(path, data)
	if err != nil {
		return err
	}
	return db.UpsertRecipe(*r, path, storage.Checksum(data))
}
