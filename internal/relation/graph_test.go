package relation

import (
	"sort"
	"testing"

	"github.com/starford/larder/internal/models"
)

func recipe(id, title string, refs ...string) models.Recipe {
	r := models.Recipe{ID: id, Title: title}
	for _, ref := range refs {
		r.Ingredients = append(r.Ingredients, models.Ingredient{Text: "1 PTN " + ref})
	}
	return r
}

func sortedExpand(g *Graph, seeds ...string) []string {
	set := g.Expand(seeds)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func TestBuild_SymmetricEdge(t *testing.T) {
	corpus := []models.Recipe{
		recipe("burger", "Burger", "Pickled Red Onion"),
		recipe("onion", "Pickled Red Onion"),
	}
	g := Build(corpus, "PTN")

	if n := g.Neighbors("burger"); len(n) != 1 || n[0] != "onion" {
		t.Errorf("burger neighbors = %v, want [onion]", n)
	}
	if n := g.Neighbors("onion"); len(n) != 1 || n[0] != "burger" {
		t.Errorf("onion neighbors = %v, want [burger]", n)
	}
}

func TestBuild_LowScoreCreatesNoEdge(t *testing.T) {
	// "pesto tomato basil mozzarella ciabatta" vs "Tomato Basil Mozzarella":
	// 3 of 5 tokens match (ratio 0.6) -> score 68, below the edge threshold.
	corpus := []models.Recipe{
		recipe("sandwich", "Sandwich", "pesto tomato basil mozzarella ciabatta"),
		recipe("caprese", "Tomato Basil Mozzarella"),
	}
	g := Build(corpus, "PTN")
	if n := g.Neighbors("sandwich"); len(n) != 0 {
		t.Errorf("sandwich neighbors = %v, want none", n)
	}
	if n := g.Neighbors("caprese"); len(n) != 0 {
		t.Errorf("caprese neighbors = %v, want none", n)
	}
}

func TestBuild_SelfMatchDiscarded(t *testing.T) {
	// The label resolves best to the recipe that owns the ingredient line.
	corpus := []models.Recipe{
		recipe("brine", "Pickle Brine", "Pickle Brine"),
		recipe("other", "Roast Chicken"),
	}
	g := Build(corpus, "PTN")
	if n := g.Neighbors("brine"); len(n) != 0 {
		t.Errorf("brine neighbors = %v, want none (no self-loop)", n)
	}
}

func TestExpand_ChainFromEitherEnd(t *testing.T) {
	corpus := []models.Recipe{
		recipe("a", "Alpha Stock", "Bravo Glaze"),
		recipe("b", "Bravo Glaze", "Charlie Butter"),
		recipe("c", "Charlie Butter", "Delta Crumb"),
		recipe("d", "Delta Crumb"),
	}
	g := Build(corpus, "PTN")

	want := []string{"a", "b", "c", "d"}
	if got := sortedExpand(g, "a"); !equal(got, want) {
		t.Errorf("Expand(a) = %v, want %v", got, want)
	}
	if got := sortedExpand(g, "c"); !equal(got, want) {
		t.Errorf("Expand(c) = %v, want %v", got, want)
	}
}

func TestExpand_DisjointSeedsReturnUnion(t *testing.T) {
	corpus := []models.Recipe{
		recipe("a", "Alpha Stock", "Bravo Glaze"),
		recipe("b", "Bravo Glaze"),
		recipe("x", "X-Ray Jam", "Yankee Curd"),
		recipe("y", "Yankee Curd"),
		recipe("lone", "Lone Loaf"),
	}
	g := Build(corpus, "PTN")

	want := []string{"a", "b", "x", "y"}
	if got := sortedExpand(g, "a", "y"); !equal(got, want) {
		t.Errorf("Expand(a, y) = %v, want %v", got, want)
	}
}

func TestExpand_UnknownSeedIsSingleton(t *testing.T) {
	g := Build(nil, "PTN")
	if got := sortedExpand(g, "ghost"); !equal(got, []string{"ghost"}) {
		t.Errorf("Expand(ghost) = %v, want [ghost]", got)
	}
}

// Two independent references in one recipe merge otherwise unconnected
// targets into a single component.
func TestBuild_TwoLabelsMergeComponents(t *testing.T) {
	corpus := []models.Recipe{
		recipe("plate", "Tasting Plate", "Pickled Red Onion", "Burger Bun"),
		recipe("onion", "Pickled Red Onion"),
		recipe("bun", "Burger Bun"),
	}
	g := Build(corpus, "PTN")

	want := []string{"bun", "onion", "plate"}
	for _, seed := range []string{"plate", "onion", "bun"} {
		if got := sortedExpand(g, seed); !equal(got, want) {
			t.Errorf("Expand(%s) = %v, want %v", seed, got, want)
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
