package compound

import (
	"reflect"
	"strings"
	"testing"
)

func TestFindSubIngredients(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"garlic pasta", []string{"garlic"}},
		{"egg noodles", []string{"egg"}},
		{"coconut milk", nil},
		{"butter chicken", []string{"butter", "chicken"}},
		{"rice", nil},
	}
	for _, c := range cases {
		got := FindSubIngredients(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("FindSubIngredients(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExpandExplicitWith(t *testing.T) {
	expanded, display := Expand([]string{"burger with chicken"})
	if !reflect.DeepEqual(expanded, []string{"chicken"}) {
		t.Fatalf("expanded = %v", expanded)
	}
	if display["chicken"] != "burger with chicken" {
		t.Fatalf("display map missing original name: %v", display)
	}
}

func TestExpandSingleWordPassthrough(t *testing.T) {
	expanded, display := Expand([]string{"sugar"})
	if !reflect.DeepEqual(expanded, []string{"sugar"}) {
		t.Fatalf("expanded = %v", expanded)
	}
	if len(display) != 0 {
		t.Fatalf("expected no display map entries for single-word items, got %v", display)
	}
}

func TestExpandImplicitCompound(t *testing.T) {
	expanded, display := Expand([]string{"garlic pasta"})
	if !reflect.DeepEqual(expanded, []string{"garlic"}) {
		t.Fatalf("expanded = %v", expanded)
	}
	if display["garlic"] != "garlic pasta" {
		t.Fatalf("expected compound product display mapping, got %v", display)
	}
}

func TestExpandPlantModifierNeutralizesDairy(t *testing.T) {
	expanded, _ := Expand([]string{"coconut milk"})
	if !reflect.DeepEqual(expanded, []string{"coconut milk"}) {
		t.Fatalf("expected coconut milk to pass through whole with no \"milk\" keyword extracted, got %v", expanded)
	}
}

func TestExpandDedup(t *testing.T) {
	expanded, _ := Expand([]string{"egg noodles", "scrambled eggs with egg"})
	seen := make(map[string]int)
	for _, e := range expanded {
		seen[strings.ToLower(e)]++
	}
	for k, c := range seen {
		if c > 1 {
			t.Fatalf("expected %q to appear once, appeared %d times in %v", k, c, expanded)
		}
	}
}
