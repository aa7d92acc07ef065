// Package store defines the content store boundary: the read and write
// surfaces the visibility engine depends on, and an HTTP client for a remote
// larder content store. The local SQLite index satisfies the same interfaces.
package store

import (
	"context"

	"github.com/starford/larder/internal/models"
)

// Scope selects which part of the corpus a read covers. The zero value means
// "recipes visible to the public audience". All widens the read to every
// document regardless of audience.
type Scope struct {
	Audience models.Audience
	All      bool
}

// Reader is the content store read surface.
type Reader interface {
	// ListRecipes fetches recipes with id, title, ingredient lines and
	// visibility flags for the given scope.
	ListRecipes(ctx context.Context, scope Scope) ([]models.Recipe, error)
	// GetRecipe fetches a single recipe by id. Returns apperr.ErrNotFound
	// when the id is unknown.
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	// FetchVisibility returns current visibility flags for the given ids.
	// Unknown ids are absent from the result.
	FetchVisibility(ctx context.Context, ids []string) (map[string]models.Visibility, error)
}

// Writer is the content store write surface: patch the visibility flags of
// one recipe. Implementations classify credential failures with the apperr
// sentinels so the write chain can decide whether to advance.
type Writer interface {
	PatchVisibility(ctx context.Context, id string, vis models.Visibility) error
}

// SearchResult is one text-search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher is the full-text search surface used as the fallback target when
// navigation cannot resolve a label.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
