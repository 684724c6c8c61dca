package intent

import "testing"

func TestExtractIngredientsViaProseTakesNouns(t *testing.T) {
	got := extractIngredientsViaProse("gelatin marshmallow topping")
	if len(got) == 0 {
		t.Fatal("expected at least one noun candidate")
	}
}

func TestExtractIngredientsViaProseSkipsExcludedNoun(t *testing.T) {
	got := extractIngredientsViaProse("no peanuts please")
	for _, g := range got {
		if g == "peanuts" {
			t.Fatal("expected \"peanuts\" to be excluded after \"no\"")
		}
	}
}

func TestExtractIngredientsViaProseEmptyQuery(t *testing.T) {
	if got := extractIngredientsViaProse("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %+v", got)
	}
}
