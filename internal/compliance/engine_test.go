package compliance

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/dietary-compliance-engine/internal/ontology"
	"github.com/pageza/dietary-compliance-engine/internal/restrictions"
)

type ontologyFileFixture struct {
	OntologyVersion string               `json:"ontology_version"`
	Ingredients     []ontology.Ingredient `json:"ingredients"`
}

type restrictionsFileFixture struct {
	Restrictions []restrictions.Restriction `json:"restrictions"`
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()

	ontologyPath := filepath.Join(dir, "ontology.json")
	ontologyData, err := json.Marshal(ontologyFileFixture{
		OntologyVersion: "1",
		Ingredients: []ontology.Ingredient{
			{ID: "gelatin", CanonicalName: "gelatin", AnimalOrigin: true, AnimalSpecies: "pig"},
			{ID: "tofu", CanonicalName: "tofu", PlantOrigin: true, SoySource: true},
			{ID: "peanut_oil", CanonicalName: "peanut oil", PlantOrigin: true, NutSource: "peanut"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ontologyPath, ontologyData, 0o644); err != nil {
		t.Fatal(err)
	}

	restrictionsPath := filepath.Join(dir, "restrictions.json")
	restrictionsData, err := json.Marshal(restrictionsFileFixture{
		Restrictions: []restrictions.Restriction{
			{
				ID:       "vegan",
				Category: restrictions.CategoryLifestyle,
				Severity: restrictions.SeverityStrict,
				Rules: []restrictions.Rule{
					{Field: "animal_origin", Operator: restrictions.OpEquals, Value: true, Action: restrictions.ActionFail},
				},
			},
			{
				ID:       "peanut_allergy",
				Category: restrictions.CategoryAllergy,
				Severity: restrictions.SeverityStrict,
				Rules: []restrictions.Rule{
					{Field: "nut_source", Operator: restrictions.OpEquals, Value: "peanut", Action: restrictions.ActionFail},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(restrictionsPath, restrictionsData, 0o644); err != nil {
		t.Fatal(err)
	}

	staticReg, err := ontology.NewRegistry(ontologyPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	restrictionReg, err := restrictions.NewRegistry(restrictionsPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	resolver := &Resolver{Static: staticReg}
	return NewEngine(resolver, restrictionReg, nil)
}

func TestEvaluateSafeAllResolvedNoTrigger(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients:    []string{"tofu"},
		RestrictionIDs: []string{"vegan"},
	})
	if v.Status != StatusSafe {
		t.Fatalf("status = %s, want SAFE", v.Status)
	}
	if v.ConfidenceScore != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", v.ConfidenceScore)
	}
}

func TestEvaluateNotSafeVeganGelatin(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients:    []string{"gelatin", "tofu"},
		RestrictionIDs: []string{"vegan"},
	})
	if v.Status != StatusNotSafe {
		t.Fatalf("status = %s, want NOT_SAFE", v.Status)
	}
	if len(v.TriggeredRestrictions) != 1 || v.TriggeredRestrictions[0] != "vegan" {
		t.Fatalf("triggered_restrictions = %v", v.TriggeredRestrictions)
	}
	if len(v.TriggeredIngredients) != 1 || v.TriggeredIngredients[0] != "gelatin" {
		t.Fatalf("triggered_ingredients = %v", v.TriggeredIngredients)
	}
}

func TestEvaluateUncertainUnknownIngredient(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients:    []string{"tofu", "unobtainium"},
		RestrictionIDs: []string{"vegan"},
		UseAPIFallback: false,
	})
	if v.Status != StatusUncertain {
		t.Fatalf("status = %s, want UNCERTAIN", v.Status)
	}
	if len(v.UncertainIngredients) != 1 || v.UncertainIngredients[0] != "unobtainium" {
		t.Fatalf("uncertain_ingredients = %v", v.UncertainIngredients)
	}
}

func TestEvaluateEmptyListIsUncertainZeroConfidence(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{})
	if v.Status != StatusUncertain || v.ConfidenceScore != 0 {
		t.Fatalf("got status=%s confidence=%v, want UNCERTAIN/0", v.Status, v.ConfidenceScore)
	}
}

func TestEvaluateTraceIngredientMissIsInformationalNotUncertain(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients:         []string{"tofu", "rare_spice"},
		RestrictionIDs:      []string{"vegan"},
		TraceIngredientKeys: map[string]bool{"rare_spice": true},
	})
	if v.Status != StatusSafe {
		t.Fatalf("status = %s, want SAFE (trace miss should not force UNCERTAIN)", v.Status)
	}
	if len(v.InformationalIngredients) != 1 || v.InformationalIngredients[0] != "rare_spice" {
		t.Fatalf("informational_ingredients = %v", v.InformationalIngredients)
	}
	if v.ConfidenceScore != 1.0 {
		t.Fatalf("confidence = %v, want 1.0 (trace miss doesn't reduce confidence)", v.ConfidenceScore)
	}
}

func TestEvaluateRestrictionIDsFilterUnknownIDsOut(t *testing.T) {
	e := newTestEngine(t)
	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients:    []string{"gelatin"},
		RestrictionIDs: []string{"nonexistent_restriction"},
	})
	if v.Status != StatusSafe {
		t.Fatalf("status = %s, want SAFE when no known restriction applies", v.Status)
	}
}

func TestEvaluateRegionScopeFiltersRestrictions(t *testing.T) {
	dir := t.TempDir()
	ontologyPath := filepath.Join(dir, "ontology.json")
	ontologyData, _ := json.Marshal(ontologyFileFixture{
		OntologyVersion: "1",
		Ingredients: []ontology.Ingredient{
			{ID: "onion", CanonicalName: "onion", OnionSource: true, PlantOrigin: true},
		},
	})
	os.WriteFile(ontologyPath, ontologyData, 0o644)

	restrictionsPath := filepath.Join(dir, "restrictions.json")
	restrictionsData, _ := json.Marshal(restrictionsFileFixture{
		Restrictions: []restrictions.Restriction{
			{
				ID:          "jain",
				RegionScope: []string{"IN"},
				Rules: []restrictions.Rule{
					{Field: "onion_source", Operator: restrictions.OpEquals, Value: true, Action: restrictions.ActionFail},
				},
			},
		},
	})
	os.WriteFile(restrictionsPath, restrictionsData, 0o644)

	staticReg, _ := ontology.NewRegistry(ontologyPath, nil)
	restrictionReg, _ := restrictions.NewRegistry(restrictionsPath, nil)
	e := NewEngine(&Resolver{Static: staticReg}, restrictionReg, nil)

	v := e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients: []string{"onion"},
		RegionScope: "US",
	})
	if v.Status != StatusSafe {
		t.Fatalf("status = %s, want SAFE when region scope excludes the only matching restriction", v.Status)
	}

	v = e.Evaluate(context.Background(), EvaluateRequest{
		Ingredients: []string{"onion"},
		RegionScope: "IN",
	})
	if v.Status != StatusNotSafe {
		t.Fatalf("status = %s, want NOT_SAFE when region scope includes the matching restriction", v.Status)
	}
}
