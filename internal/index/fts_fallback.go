//go:build !sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/larder/internal/store"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on the recipes table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _ string) error {
	// Title and ingredients are already stored in the recipes table.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title
		FROM recipes
		WHERE title LIKE ? OR ingredients LIKE ?
		ORDER BY title
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []store.SearchResult
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.ID, &r.Title); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
