package profile

import (
	"path/filepath"
	"testing"
)

func TestIsEmptyOnFreshProfile(t *testing.T) {
	p := New("u1")
	if !p.IsEmpty() {
		t.Fatal("expected fresh profile to be empty")
	}
}

func TestApplyMergeResetsBlankPreferenceToDefault(t *testing.T) {
	p := New("u1")
	blank := "   "
	p.ApplyMerge(Update{DietaryPreference: &blank})
	if p.DietaryPreference != defaultDietaryPreference {
		t.Fatalf("dietary_preference = %q, want default", p.DietaryPreference)
	}
}

func TestApplyMergeOnlyTouchesPresentFields(t *testing.T) {
	p := New("u1")
	p.Allergens = []string{"peanut"}
	vegan := "vegan"
	p.ApplyMerge(Update{DietaryPreference: &vegan})
	if p.DietaryPreference != "vegan" {
		t.Fatalf("dietary_preference = %q, want vegan", p.DietaryPreference)
	}
	if len(p.Allergens) != 1 || p.Allergens[0] != "peanut" {
		t.Fatalf("expected allergens untouched, got %v", p.Allergens)
	}
}

func TestApplyMergeClearsAllergensWhenExplicitlyEmpty(t *testing.T) {
	p := New("u1")
	p.Allergens = []string{"peanut"}
	p.ApplyMerge(Update{Allergens: []string{}, HasAllergens: true})
	if len(p.Allergens) != 0 {
		t.Fatalf("expected allergens cleared, got %v", p.Allergens)
	}
}

func TestRestrictionIDsCombinesDietAllergensLifestyle(t *testing.T) {
	p := Profile{
		UserID:            "u1",
		DietaryPreference: "Vegan",
		Allergens:         []string{"Peanuts", "gluten"},
		Lifestyle:         []string{"no_onion"},
	}
	ids := p.RestrictionIDs()
	want := map[string]bool{"vegan": true, "peanut_allergy": true, "gluten_free": true, "no_onion": true}
	if len(ids) != len(want) {
		t.Fatalf("restriction_ids = %v, want 4 entries matching %v", ids, want)
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected restriction id %q in %v", id, ids)
		}
	}
}

func TestRestrictionIDsDedupesAcrossSources(t *testing.T) {
	p := Profile{
		UserID:            "u1",
		DietaryPreference: "vegan",
		Allergens:         []string{"vegan"},
	}
	ids := p.RestrictionIDs()
	count := 0
	for _, id := range ids {
		if id == "vegan" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected vegan to appear once, got %d in %v", count, ids)
	}
}

func TestRestrictionIDsNoRulesYieldsEmpty(t *testing.T) {
	p := New("u1")
	if ids := p.RestrictionIDs(); len(ids) != 0 {
		t.Fatalf("expected no restriction ids for default profile, got %v", ids)
	}
}

func TestStoreSaveAndGetRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewStore(path, nil)

	p := Profile{UserID: "u1", DietaryPreference: "vegan", Allergens: []string{"peanut"}}
	if err := store.Save(p); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := NewStore(path, nil)
	got, ok := reloaded.Get("u1")
	if !ok {
		t.Fatal("expected profile to persist across reload")
	}
	if got.DietaryPreference != "vegan" || len(got.Allergens) != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestStoreGetOrCreateReturnsDefaultOnFirstCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewStore(path, nil)

	p, err := store.GetOrCreate("new_user")
	if err != nil {
		t.Fatalf("get_or_create: %v", err)
	}
	if p.DietaryPreference != defaultDietaryPreference {
		t.Fatalf("dietary_preference = %q, want default", p.DietaryPreference)
	}

	reloaded := NewStore(path, nil)
	if _, ok := reloaded.Get("new_user"); !ok {
		t.Fatal("expected get_or_create to persist the new profile")
	}
}

func TestStoreUpdatePartialCreatesThenMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewStore(path, nil)

	vegan := "vegan"
	p, err := store.UpdatePartial("u2", Update{DietaryPreference: &vegan})
	if err != nil {
		t.Fatalf("update_partial: %v", err)
	}
	if p.DietaryPreference != "vegan" {
		t.Fatalf("dietary_preference = %q, want vegan", p.DietaryPreference)
	}

	p, err = store.UpdatePartial("u2", Update{Allergens: []string{"soy"}, HasAllergens: true})
	if err != nil {
		t.Fatalf("update_partial: %v", err)
	}
	if p.DietaryPreference != "vegan" {
		t.Fatalf("expected dietary_preference preserved across partial update, got %q", p.DietaryPreference)
	}
	if len(p.Allergens) != 1 || p.Allergens[0] != "soy" {
		t.Fatalf("allergens = %v", p.Allergens)
	}
}

func TestStoreDeleteRemovesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewStore(path, nil)
	store.Save(Profile{UserID: "u3"})

	if err := store.Delete("u3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get("u3"); ok {
		t.Fatal("expected profile to be removed")
	}
}
