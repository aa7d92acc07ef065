// Package relation builds the undirected relation graph between recipes and
// expands seed sets into connected components.
//
// Edges are inferred, never stored: a recipe's ingredient text yields
// reference labels, each label is fuzzy-matched against every recipe title,
// and a best match at or above match.ScoreEdge links the two recipes. The
// graph is rebuilt from live document state on every propagation request, so
// there is no persisted structure to go stale.
package relation

import (
	"github.com/starford/larder/internal/match"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/reference"
)

// Graph is an adjacency structure over recipe ids. Both directions of every
// edge are recorded.
type Graph struct {
	adj map[string]map[string]struct{}
}

// Build constructs the relation graph for the whole corpus using the given
// marker token. Matching is memoized per distinct label string, since the
// same label tends to appear across many ingredient lines.
func Build(recipes []models.Recipe, marker string) *Graph {
	ext := reference.New(marker)
	g := &Graph{adj: make(map[string]map[string]struct{}, len(recipes))}

	cache := make(map[string]match.Result)
	for _, r := range recipes {
		for _, label := range ext.Labels(r) {
			best, ok := cache[label]
			if !ok {
				best = match.Best(label, recipes)
				cache[label] = best
			}
			if best.Score < match.ScoreEdge {
				continue
			}
			// Self-matches (a label resolving to its own recipe) are
			// discarded: the graph carries no self-loops.
			if best.ID == r.ID {
				continue
			}
			g.addEdge(r.ID, best.ID)
		}
	}
	return g
}

func (g *Graph) addEdge(a, b string) {
	if g.adj[a] == nil {
		g.adj[a] = make(map[string]struct{})
	}
	if g.adj[b] == nil {
		g.adj[b] = make(map[string]struct{})
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
}

// Neighbors returns the ids directly connected to id.
func (g *Graph) Neighbors(id string) []string {
	out := make([]string, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		out = append(out, n)
	}
	return out
}

// Expand returns every recipe id reachable from any seed, seeds included.
// Seeds without edges are kept as singleton members. Each node is visited at
// most once, so the traversal is linear in the reachable region.
func (g *Graph) Expand(seeds []string) map[string]struct{} {
	visited := make(map[string]struct{}, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if _, ok := visited[s]; ok {
			continue
		}
		visited[s] = struct{}{}
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for n := range g.adj[cur] {
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return visited
}
