package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/store"
)

// UpsertRecipe inserts or replaces a recipe row and its FTS entry within a
// transaction.
func (db *DB) UpsertRecipe(r models.Recipe, path, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	ingJSON, _ := json.Marshal(r.Ingredients)

	_, err = tx.Exec(`
		INSERT INTO recipes (id, path, title, checksum, public, enterprise, ingredients, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			path        = excluded.path,
			title       = excluded.title,
			checksum    = excluded.checksum,
			public      = excluded.public,
			enterprise  = excluded.enterprise,
			ingredients = excluded.ingredients,
			updated_at  = CURRENT_TIMESTAMP
	`, r.ID, path, r.Title, checksum, boolInt(r.Visibility.Public), boolInt(r.Visibility.Enterprise), string(ingJSON))
	if err != nil {
		return fmt.Errorf("index: upsert recipe: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, r.ID, r.Title, ingredientText(r.Ingredients)); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteByPath removes the recipe indexed from the given corpus file.
func (db *DB) DeleteByPath(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id string
	if err := tx.QueryRow(`SELECT id FROM recipes WHERE path = ?`, path).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tx.Commit()
		}
		return fmt.Errorf("index: lookup by path: %w", err)
	}
	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM recipes WHERE path = ?`, path)

	return tx.Commit()
}

// PathOf returns the corpus file path a recipe was indexed from.
func (db *DB) PathOf(ctx context.Context, id string) (string, error) {
	var p string
	err := db.conn.QueryRowContext(ctx, `SELECT path FROM recipes WHERE id = ?`, id).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("index: recipe %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("index: path of %s: %w", id, err)
	}
	return p, nil
}

// AllChecksums returns path -> checksum for every indexed recipe.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListRecipes implements store.Reader. Rows are returned in id order so the
// relation graph sees a stable, deterministic corpus enumeration.
func (db *DB) ListRecipes(ctx context.Context, scope store.Scope) ([]models.Recipe, error) {
	q := `SELECT id, title, public, enterprise, ingredients FROM recipes`
	if !scope.All {
		if scope.Audience == models.AudienceEnterprise {
			q += ` WHERE enterprise = 1`
		} else {
			q += ` WHERE public = 1`
		}
	}
	q += ` ORDER BY id`

	rows, err := db.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("index: list recipes: %w", err)
	}
	defer rows.Close()

	var out []models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetRecipe implements store.Reader.
func (db *DB) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, title, public, enterprise, ingredients FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: recipe %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FetchVisibility implements store.Reader. Unknown ids are absent from the
// result.
func (db *DB) FetchVisibility(ctx context.Context, ids []string) (map[string]models.Visibility, error) {
	out := make(map[string]models.Visibility, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, public, enterprise FROM recipes WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: fetch visibility: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var pub, ent int
		if err := rows.Scan(&id, &pub, &ent); err != nil {
			return nil, err
		}
		out[id] = models.Visibility{Public: pub != 0, Enterprise: ent != 0}
	}
	return out, rows.Err()
}

// PatchVisibility implements store.Writer. The full flag pair is written;
// serve mode additionally persists the change back to the corpus file.
func (db *DB) PatchVisibility(ctx context.Context, id string, vis models.Visibility) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE recipes SET public = ?, enterprise = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(vis.Public), boolInt(vis.Enterprise), id)
	if err != nil {
		return fmt.Errorf("index: patch visibility: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("index: recipe %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var r models.Recipe
	var pub, ent int
	var ingJSON string
	if err := row.Scan(&r.ID, &r.Title, &pub, &ent, &ingJSON); err != nil {
		return nil, err
	}
	r.Visibility = models.Visibility{Public: pub != 0, Enterprise: ent != 0}
	if err := json.Unmarshal([]byte(ingJSON), &r.Ingredients); err != nil {
		return nil, fmt.Errorf("index: decode ingredients: %w", err)
	}
	return &r, nil
}

// ingredientText flattens ingredient lines for full-text indexing.
func ingredientText(ings []models.Ingredient) string {
	var parts []string
	for _, ing := range ings {
		for _, f := range []string{ing.Quantity, ing.Item, ing.Text} {
			if f != "" {
				parts = append(parts, f)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
