package normalize

import "testing"

func TestPreprocessIngredientsMarksTraceAfterMarker(t *testing.T) {
	got := PreprocessIngredients("Enriched Flour, Sugar, Contains 2% or Less of: Salt, Baking Soda")
	want := map[string]bool{
		"enriched flour": false,
		"sugar":          false,
		"salt":           true,
		"baking soda":    true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d atoms, got %d: %+v", len(want), len(got), got)
	}
	for _, atom := range got {
		expected, ok := want[atom.Name]
		if !ok {
			t.Fatalf("unexpected atom %q", atom.Name)
		}
		if atom.Trace != expected {
			t.Fatalf("atom %q: expected trace=%v, got %v", atom.Name, expected, atom.Trace)
		}
	}
}

func TestPreprocessIngredientsNoMarkerMeansNoTrace(t *testing.T) {
	got := PreprocessIngredients("Milk, Sugar, Cocoa")
	for _, atom := range got {
		if atom.Trace {
			t.Fatalf("expected no trace atoms, got %q marked trace", atom.Name)
		}
	}
}

func TestPreprocessIngredientsEmptyInput(t *testing.T) {
	if got := PreprocessIngredients("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %+v", got)
	}
}

func TestPreprocessIngredientsDedupesKeepingTraceTrue(t *testing.T) {
	got := PreprocessIngredients("Salt, Less Than 2% of Salt")
	if len(got) != 1 {
		t.Fatalf("expected one deduplicated atom, got %+v", got)
	}
	if !got[0].Trace {
		t.Fatal("expected deduplicated atom to keep trace=true from its second occurrence")
	}
}
