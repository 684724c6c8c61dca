package restrictions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/dietary-compliance-engine/internal/ontology"
)

func writeRestrictionsFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "restrictions.json")
	file := restrictionsFile{
		Restrictions: []Restriction{
			{
				ID:          "vegan",
				Category:    CategoryLifestyle,
				RegionScope: []string{"GLOBAL"},
				Severity:    SeverityStrict,
				Rules: []Rule{
					{Field: "animal_origin", Operator: OpEquals, Value: true, Action: ActionFail},
					{Field: "insect_derived", Operator: OpEquals, Value: true, Action: ActionFail},
				},
			},
			{
				ID:          "peanut_allergy",
				Category:    CategoryAllergy,
				RegionScope: []string{"GLOBAL"},
				Severity:    SeverityStrict,
				Rules: []Rule{
					{Field: "nut_source", Operator: OpEquals, Value: "peanut", Action: ActionFail},
				},
			},
		},
	}
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	reg, err := NewRegistry(writeRestrictionsFixture(t, t.TempDir()), nil)
	if err != nil {
		t.Fatal(err)
	}
	vegan, ok := reg.Get("vegan")
	if !ok {
		t.Fatal("expected vegan restriction to load")
	}

	gelatin := ontology.Ingredient{ID: "gelatin", AnimalOrigin: true}
	action, reason := reg.Evaluate(gelatin, vegan)
	if action != ActionFail {
		t.Fatalf("expected FAIL, got %s", action)
	}
	if reason == "" {
		t.Error("expected a non-empty reason")
	}

	tofu := ontology.Ingredient{ID: "tofu", PlantOrigin: true}
	action, _ = reg.Evaluate(tofu, vegan)
	if action != "PASS" {
		t.Fatalf("expected PASS for plant ingredient, got %s", action)
	}
}

func TestEvaluateEqualsStringField(t *testing.T) {
	reg, err := NewRegistry(writeRestrictionsFixture(t, t.TempDir()), nil)
	if err != nil {
		t.Fatal(err)
	}
	peanutAllergy, _ := reg.Get("peanut_allergy")

	peanutOil := ontology.Ingredient{ID: "peanut_oil", NutSource: "peanut"}
	action, _ := reg.Evaluate(peanutOil, peanutAllergy)
	if action != ActionFail {
		t.Fatalf("expected FAIL for peanut nut_source, got %s", action)
	}

	almondMilk := ontology.Ingredient{ID: "almond_milk", NutSource: "tree_nut"}
	action, _ = reg.Evaluate(almondMilk, peanutAllergy)
	if action != "PASS" {
		t.Fatalf("expected PASS for tree_nut vs peanut_allergy, got %s", action)
	}
}

func TestRestrictionAppliesToRegion(t *testing.T) {
	r := Restriction{RegionScope: []string{"IN"}}
	if !r.AppliesToRegion("") {
		t.Error("empty caller region should always apply")
	}
	if !r.AppliesToRegion("IN") {
		t.Error("matching region should apply")
	}
	if r.AppliesToRegion("US") {
		t.Error("non-matching region should not apply")
	}
}
