// Package navigate resolves sub-recipe reference labels to clickable
// targets. It shares the match scoring with the relation graph builder but
// applies the navigation thresholds: a direct link above match.ScoreDirect,
// a tentative reference down to match.ScoreWeak, unresolved below that (the
// caller then falls back to a text-search link).
package navigate

import (
	"context"
	"fmt"

	"github.com/starford/larder/internal/match"
	"github.com/starford/larder/internal/store"
)

// Resolution is the outcome for one label. Found is false when the label
// could not be resolved with usable confidence; Direct marks a match strong
// enough to expose as a link.
type Resolution struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Direct bool   `json:"direct"`
	Found  bool   `json:"found"`
}

// Resolver answers read-only label lookups against the recipe corpus.
type Resolver struct {
	reader store.Reader
}

// NewResolver creates a Resolver over the given store reader.
func NewResolver(reader store.Reader) *Resolver {
	return &Resolver{reader: reader}
}

// Resolve maps each label to its resolution within the scoped corpus. The
// corpus is fetched once per call; the graph is never consulted.
func (r *Resolver) Resolve(ctx context.Context, labels []string, scope store.Scope) (map[string]Resolution, error) {
	recipes, err := r.reader.ListRecipes(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("navigate: load corpus: %w", err)
	}

	out := make(map[string]Resolution, len(labels))
	for _, label := range labels {
		if _, done := out[label]; done {
			continue
		}
		best := match.Best(label, recipes)
		switch {
		case best.Score >= match.ScoreDirect:
			out[label] = Resolution{ID: best.ID, Title: best.Title, Direct: true, Found: true}
		case best.Score >= match.ScoreWeak:
			out[label] = Resolution{ID: best.ID, Title: best.Title, Found: true}
		default:
			out[label] = Resolution{}
		}
	}
	return out, nil
}
