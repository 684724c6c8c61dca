package normalize

import (
	"reflect"
	"testing"
)

func TestKeyAppliesVariants(t *testing.T) {
	cases := map[string]string{
		"Inglass":            "isinglass",
		" Eggs ":             "egg",
		"Gelatine*":          "gelatin",
		"Confectioner's Glaze": "shellac",
		"sugar":              "sugar",
	}
	for in, want := range cases {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Eggs, Milk;\nWheat Flour")
	want := []string{"egg", "milk", "wheat flour"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattenProcessedFoodWholeString(t *testing.T) {
	got := FlattenIngredients("Potato Chips")
	want := []string{"potato", "vegetable oil", "salt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattenParenthesesAndDedup(t *testing.T) {
	got := FlattenIngredients("Enriched Bleached Wheat Flour (Bleached Wheat Flour, Niacin, Folic Acid)")
	want := []string{"enriched bleached wheat flour", "bleached wheat flour", "niacin", "folic acid"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattenNestedProcessedFoodAtom(t *testing.T) {
	got := FlattenIngredients("Sandwich Filling (Mayonnaise, Lettuce)")
	want := []string{"sandwich filling", "egg", "vegetable oil", "vinegar", "lettuce"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := FlattenIngredients("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}
