package visibility

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/starford/larder/internal/apperr"
	"github.com/starford/larder/internal/models"
	"github.com/starford/larder/internal/store"
)

// fakeStore is an in-memory content store. Writes can be forced to fail per
// recipe id to exercise the chain's failure handling.
type fakeStore struct {
	recipes []models.Recipe
	fail    map[string]error // recipe id -> error returned by PatchVisibility
	reads   int
}

func newFakeStore(recipes ...models.Recipe) *fakeStore {
	return &fakeStore{recipes: recipes, fail: map[string]error{}}
}

func (f *fakeStore) ListRecipes(_ context.Context, _ store.Scope) ([]models.Recipe, error) {
	f.reads++
	return f.recipes, nil
}

func (f *fakeStore) GetRecipe(_ context.Context, id string) (*models.Recipe, error) {
	f.reads++
	for i := range f.recipes {
		if f.recipes[i].ID == id {
			return &f.recipes[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeStore) FetchVisibility(_ context.Context, ids []string) (map[string]models.Visibility, error) {
	f.reads++
	out := map[string]models.Visibility{}
	for _, id := range ids {
		for _, r := range f.recipes {
			if r.ID == id {
				out[id] = r.Visibility
			}
		}
	}
	return out, nil
}

func (f *fakeStore) PatchVisibility(_ context.Context, id string, vis models.Visibility) error {
	if err := f.fail[id]; err != nil {
		return err
	}
	for i := range f.recipes {
		if f.recipes[i].ID == id {
			f.recipes[i].Visibility = vis
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeStore) visibility(id string) models.Visibility {
	for _, r := range f.recipes {
		if r.ID == id {
			return r.Visibility
		}
	}
	return models.Visibility{}
}

func sub(id, title string, refs ...string) models.Recipe {
	r := models.Recipe{ID: id, Title: title}
	for _, ref := range refs {
		r.Ingredients = append(r.Ingredients, models.Ingredient{Text: "1 PTN " + ref})
	}
	return r
}

func testPropagator(fs *fakeStore) *Propagator {
	chain := Chain{{Name: "write", Writer: fs}}
	return NewPropagator(fs, chain, "kitchen", "PTN", nil)
}

func TestPropagate_WholeComponentUpdated(t *testing.T) {
	fs := newFakeStore(
		sub("burger", "Burger", "Pickled Red Onion"),
		sub("onion", "Pickled Red Onion", "Pickle Brine"),
		sub("brine", "Pickle Brine"),
		sub("cake", "Carrot Cake"), // separate component
	)
	p := testPropagator(fs)

	res, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"burger"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	wantRelated := []string{"brine", "burger", "onion"}
	if !reflect.DeepEqual(res.RelatedIDs, wantRelated) {
		t.Errorf("RelatedIDs = %v, want %v", res.RelatedIDs, wantRelated)
	}
	if !reflect.DeepEqual(res.UpdatedIDs, wantRelated) {
		t.Errorf("UpdatedIDs = %v, want %v", res.UpdatedIDs, wantRelated)
	}
	for _, id := range wantRelated {
		if !fs.visibility(id).Public {
			t.Errorf("%s not public after propagation", id)
		}
	}
	if fs.visibility("cake").Public {
		t.Error("cake is outside the component and must be untouched")
	}
}

func TestPropagate_OnlyRequestedAudienceChanges(t *testing.T) {
	fs := newFakeStore(sub("solo", "Solo Dish"))
	fs.recipes[0].Visibility = models.Visibility{Public: false, Enterprise: true}
	p := testPropagator(fs)

	_, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"solo"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	got := fs.visibility("solo")
	if !got.Public || !got.Enterprise {
		t.Errorf("visibility = %+v, want both flags set", got)
	}
}

func TestPropagate_Idempotent(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha", "Bravo"), sub("b", "Bravo"))
	p := testPropagator(fs)
	req := Request{SeedIDs: []string{"a"}, Audience: models.AudienceEnterprise, Value: true}

	first, err := p.Propagate(context.Background(), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.UpdatedIDs) != 2 {
		t.Fatalf("first UpdatedIDs = %v, want 2 entries", first.UpdatedIDs)
	}

	second, err := p.Propagate(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.UpdatedIDs) != 0 {
		t.Errorf("second UpdatedIDs = %v, want none (state already converged)", second.UpdatedIDs)
	}
	if !reflect.DeepEqual(second.RelatedIDs, first.RelatedIDs) {
		t.Errorf("RelatedIDs changed between runs: %v vs %v", second.RelatedIDs, first.RelatedIDs)
	}
}

func TestPropagate_EmptySeedsSkipStore(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha"))
	p := testPropagator(fs)

	res, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"  ", "", "	"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if len(res.UpdatedIDs) != 0 || len(res.RelatedIDs) != 0 {
		t.Errorf("result = %+v, want empty", res)
	}
	if fs.reads != 0 {
		t.Errorf("store was read %d times, want 0", fs.reads)
	}
}

func TestPropagate_SeedsDeduplicated(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha"))
	p := testPropagator(fs)

	res, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"a", " a ", "a"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if !reflect.DeepEqual(res.RelatedIDs, []string{"a"}) {
		t.Errorf("RelatedIDs = %v, want [a]", res.RelatedIDs)
	}
}

func TestPropagate_InvalidAudience(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha"))
	p := testPropagator(fs)

	_, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"a"},
		Audience: models.Audience("staff"),
		Value:    true,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if fs.reads != 0 {
		t.Errorf("store was read %d times, want 0", fs.reads)
	}
}

func TestPropagate_NoCredentialFailsFast(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha"))
	p := NewPropagator(fs, nil, "kitchen", "PTN", nil)

	_, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"a"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if !errors.Is(err, apperr.ErrNoWriteCredential) {
		t.Errorf("err = %v, want ErrNoWriteCredential", err)
	}
	if fs.reads != 0 {
		t.Errorf("store was read %d times, want 0", fs.reads)
	}
}

// Third member of a five-member chain fails with a permission denial on
// every channel: the first two stay written, the rest untouched, and the
// caller sees a permission error.
func TestPropagate_PartialFailureVisible(t *testing.T) {
	fs := newFakeStore(
		sub("a1", "Alpha One", "Alpha Two"),
		sub("a2", "Alpha Two", "Alpha Three"),
		sub("a3", "Alpha Three", "Alpha Four"),
		sub("a4", "Alpha Four", "Alpha Five"),
		sub("a5", "Alpha Five"),
	)
	fs.fail["a3"] = fmt.Errorf("store: credential lacks update rights: %w", apperr.ErrPermissionDenied)
	p := testPropagator(fs)

	res, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"a1"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("err = %v, want permission error", err)
	}
	var perm *apperr.PermissionError
	if !errors.As(err, &perm) {
		t.Fatalf("err = %T, want *apperr.PermissionError", err)
	}
	if len(perm.Channels) != 1 || perm.Channels[0] != "write" {
		t.Errorf("attempted channels = %v, want [write]", perm.Channels)
	}

	if !reflect.DeepEqual(res.UpdatedIDs, []string{"a1", "a2"}) {
		t.Errorf("UpdatedIDs = %v, want [a1 a2]", res.UpdatedIDs)
	}
	for _, id := range []string{"a1", "a2"} {
		if !fs.visibility(id).Public {
			t.Errorf("%s should remain written", id)
		}
	}
	for _, id := range []string{"a3", "a4", "a5"} {
		if fs.visibility(id).Public {
			t.Errorf("%s should be untouched", id)
		}
	}
}

func TestPropagate_FatalErrorAborts(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha", "Bravo"), sub("b", "Bravo"))
	boom := errors.New("store: connection reset")
	fs.fail["a"] = boom
	p := testPropagator(fs)

	_, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"a"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want underlying fatal error", err)
	}
	if fs.visibility("b").Public {
		t.Error("b written after fatal abort on a")
	}
}

func TestPropagate_UnknownSeedIsRelatedButNotUpdated(t *testing.T) {
	fs := newFakeStore(sub("a", "Alpha"))
	p := testPropagator(fs)

	res, err := p.Propagate(context.Background(), Request{
		SeedIDs:  []string{"ghost"},
		Audience: models.AudiencePublic,
		Value:    true,
	})
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}
	if !reflect.DeepEqual(res.RelatedIDs, []string{"ghost"}) {
		t.Errorf("RelatedIDs = %v, want [ghost]", res.RelatedIDs)
	}
	if len(res.UpdatedIDs) != 0 {
		t.Errorf("UpdatedIDs = %v, want none", res.UpdatedIDs)
	}
}
