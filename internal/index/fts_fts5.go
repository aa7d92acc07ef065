//go:build sqlite_fts5

package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/larder/internal/store"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS recipes_fts USING fts5(
			id UNINDEXED,
			title,
			ingredients,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, title, ingredients string) error {
	_, _ = tx.Exec(`DELETE FROM recipes_fts WHERE id = ?`, id)
	_, err := tx.Exec(`INSERT INTO recipes_fts (id, title, ingredients) VALUES (?, ?, ?)`,
		id, title, ingredients)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM recipes_fts WHERE id = ?`, id)
}

// Search performs an FTS5 full-text search over titles and ingredient text.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]store.SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id,
		       title,
		       snippet(recipes_fts, 2, '<b>', '</b>', '...', 64)
		FROM recipes_fts
		WHERE recipes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []store.SearchResult
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
