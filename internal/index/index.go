package index

import (
	"context"

	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/store"
)

// RecipeIndex defines the interface for recipe indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type RecipeIndex interface {
	store.Reader
	store.Writer
	store.Searcher

	UpsertRecipe(r models.Recipe, path, checksum string) error
	DeleteByPath(path string) error
	PathOf(ctx context.Context, id string) (string, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies RecipeIndex at compile time.
var _ RecipeIndex = (*DB)(nil)
