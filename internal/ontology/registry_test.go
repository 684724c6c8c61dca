package ontology

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeOntologyFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ontology.json")
	file := ontologyFile{
		OntologyVersion: "1",
		Ingredients: []Ingredient{
			{ID: "gelatin", CanonicalName: "gelatin", Aliases: []string{"gelatine"}, AnimalOrigin: true, AnimalSpecies: "pig"},
			{ID: "soy_lecithin", CanonicalName: "soy lecithin", SoySource: true, PlantOrigin: true},
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

func TestRegistryResolve(t *testing.T) {
	path := writeOntologyFixture(t, t.TempDir())
	reg, err := NewRegistry(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 indexed keys (2 canonical + 1 alias), got %d", reg.Len())
	}

	ing, ok := reg.Resolve("Gelatine*")
	if !ok {
		t.Fatal("expected alias with punctuation/case to resolve")
	}
	if ing.ID != "gelatin" {
		t.Fatalf("expected gelatin, got %s", ing.ID)
	}
	if !ing.MeatFishDerived() {
		t.Error("gelatin should be meat/fish derived")
	}

	if _, ok := reg.Resolve("unobtainium"); ok {
		t.Fatal("expected unknown ingredient to not resolve")
	}
}

func TestRegistryMissingFileIsEmpty(t *testing.T) {
	reg, err := NewRegistry(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 0 {
		t.Fatal("expected empty registry for missing ontology file")
	}
}

func TestDynamicRegistryAppendAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dynamic_ontology.json")

	d, err := NewDynamicRegistry(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ing := Ingredient{ID: "carmine", CanonicalName: "carmine", InsectDerived: true, AnimalOrigin: true}
	if err := d.Append(ing, "usda_fdc", "high", true); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected dynamic ontology file to be persisted: %v", err)
	}

	reloaded, err := NewDynamicRegistry(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reloaded.Resolve("carmine")
	if !ok {
		t.Fatal("expected reloaded dynamic registry to resolve carmine")
	}
	if !got.InsectDerived {
		t.Error("expected insect_derived flag to round-trip")
	}

	// Appending the same id again should not duplicate or error.
	if err := d.Append(ing, "usda_fdc", "high", true); err != nil {
		t.Fatal(err)
	}
}

func TestDynamicRegistryNoPersist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dynamic_ontology.json")
	d, err := NewDynamicRegistry(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ing := Ingredient{ID: "tmp", CanonicalName: "tmp ingredient"}
	if err := d.Append(ing, "open_food_facts", "medium", false); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Resolve("tmp ingredient"); !ok {
		t.Fatal("expected in-memory resolve to work even without persist")
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatal("expected no file to be written when persist=false")
	}
}
