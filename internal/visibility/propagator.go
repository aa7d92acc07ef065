// Package visibility propagates publish/visibility changes across the
// relation graph: every recipe transitively linked to a seed receives the
// identical flag value for the requested audience, written through an
// ordered chain of credentialed channels.
package visibility

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/relation"
	"github.com/starford/larder/internal/store"
)

// Request is one visibility change: seed recipes, target audience, target
// flag value.
type Request struct {
	SeedIDs  []string
	Audience models.Audience
	Value    bool
}

// Validate checks the request before any store access.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Audience, validation.Required,
			validation.In(models.AudiencePublic, models.AudienceEnterprise)),
	)
}

// normalizedSeeds returns the trimmed, deduplicated seed ids in first-seen
// order.
func (r Request) normalizedSeeds() []string {
	seen := make(map[string]struct{}, len(r.SeedIDs))
	var out []string
	for _, id := range r.SeedIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Result reports a propagation outcome. RelatedIDs is the full expanded
// component; UpdatedIDs is the subset actually written. Recipes that already
// held the target state are skipped and not counted as updated, so an
// immediately repeated request yields empty UpdatedIDs.
type Result struct {
	UpdatedIDs []string `json:"updatedIds"`
	RelatedIDs []string `json:"relatedIds"`
}

// Propagator resolves the relation graph and applies visibility changes.
type Propagator struct {
	reader  store.Reader
	chain   Chain
	project string
	marker  string
	logger  *slog.Logger
}

// NewPropagator creates a Propagator. project names the content store
// project for error messages; marker is the sub-recipe marker token.
func NewPropagator(reader store.Reader, chain Chain, project, marker string, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Propagator{reader: reader, chain: chain, project: project, marker: marker, logger: logger}
}

// Propagate expands the seeds into their connected component and writes the
// requested audience flag to every member.
//
// Writes are sequential; a fatal failure aborts the remaining members and
// surfaces the underlying error while earlier writes stay committed.
// Re-running the same request converges the component (idempotent).
func (p *Propagator) Propagate(ctx context.Context, req Request) (Result, error) {
	empty := Result{UpdatedIDs: []string{}, RelatedIDs: []string{}}

	if err := req.Validate(); err != nil {
		return empty, fmt.Errorf("visibility: invalid request: %w", err)
	}
	seeds := req.normalizedSeeds()
	if len(seeds) == 0 {
		return empty, nil
	}
	if len(p.chain) == 0 {
		return empty, fmt.Errorf("visibility: %w (set %s)", apperr.ErrNoWriteCredential, EnvWriteToken)
	}

	// The graph is rebuilt from live document state on every request; no
	// persisted edges can go stale.
	recipes, err := p.reader.ListRecipes(ctx, store.Scope{All: true})
	if err != nil {
		return empty, fmt.Errorf("visibility: load corpus: %w", err)
	}
	graph := relation.Build(recipes, p.marker)
	component := graph.Expand(seeds)

	related := make([]string, 0, len(component))
	for id := range component {
		related = append(related, id)
	}
	sort.Strings(related)

	current, err := p.reader.FetchVisibility(ctx, related)
	if err != nil {
		return empty, fmt.Errorf("visibility: fetch current flags: %w", err)
	}

	updated := []string{}
	for _, id := range related {
		cur, ok := current[id]
		if !ok {
			// Seed ids unknown to the store stay in the component but
			// have nothing to write.
			p.logger.Warn("propagate: recipe not in store", slog.String("id", id))
			continue
		}
		next := cur.With(req.Audience, req.Value)
		if next == cur {
			continue
		}
		if err := p.chain.Write(ctx, p.project, id, next); err != nil {
			p.logger.Error("propagate: write failed",
				slog.String("id", id),
				slog.Int("written", len(updated)),
				slog.String("error", err.Error()))
			return Result{UpdatedIDs: updated, RelatedIDs: related}, err
		}
		updated = append(updated, id)
		p.logger.Debug("propagate: updated",
			slog.String("id", id),
			slog.String("audience", string(req.Audience)),
			slog.Bool("value", req.Value))
	}

	p.logger.Info("propagate: done",
		slog.Int("related", len(related)),
		slog.Int("updated", len(updated)))
	return Result{UpdatedIDs: updated, RelatedIDs: related}, nil
}
