package intent

import "testing"

func TestDetectGreeting(t *testing.T) {
	p := Detect("Hello")
	if p.Intent != Greeting {
		t.Fatalf("intent = %s, want GREETING", p.Intent)
	}
}

func TestDetectConversationalCountsAsGreeting(t *testing.T) {
	p := Detect("thanks a lot")
	if p.Intent != Greeting {
		t.Fatalf("intent = %s, want GREETING", p.Intent)
	}
}

func TestDetectProfileUpdateVeganDiet(t *testing.T) {
	p := Detect("I follow a vegan diet")
	if p.Intent != ProfileUpdate {
		t.Fatalf("intent = %s, want PROFILE_UPDATE", p.Intent)
	}
	if p.ProfileUpdates.DietaryPreference != "Vegan" {
		t.Fatalf("dietary_preference = %q, want Vegan", p.ProfileUpdates.DietaryPreference)
	}
}

func TestDetectIngredientQuerySingle(t *testing.T) {
	p := Detect("Is cheese okay?")
	if p.Intent != IngredientQuery {
		t.Fatalf("intent = %s, want INGREDIENT_QUERY", p.Intent)
	}
	if len(p.Ingredients) != 1 || p.Ingredients[0] != "cheese" {
		t.Fatalf("ingredients = %v, want [cheese]", p.Ingredients)
	}
}

func TestDetectIngredientListCommaSeparated(t *testing.T) {
	p := Detect("eggs, milk, flour")
	if p.Intent != IngredientQuery {
		t.Fatalf("intent = %s, want INGREDIENT_QUERY", p.Intent)
	}
	want := []string{"eggs", "milk", "flour"}
	if len(p.Ingredients) != len(want) {
		t.Fatalf("ingredients = %v, want %v", p.Ingredients, want)
	}
	for i, w := range want {
		if p.Ingredients[i] != w {
			t.Fatalf("ingredients[%d] = %q, want %q", i, p.Ingredients[i], w)
		}
	}
}

func TestDetectMixedProfileAndIngredient(t *testing.T) {
	p := Detect("I am Jain can I eat eggs?")
	if p.Intent != Mixed {
		t.Fatalf("intent = %s, want MIXED", p.Intent)
	}
	if p.ProfileUpdates.DietaryPreference != "Jain" {
		t.Fatalf("dietary_preference = %q, want Jain", p.ProfileUpdates.DietaryPreference)
	}
	if len(p.Ingredients) != 1 || p.Ingredients[0] != "eggs" {
		t.Fatalf("ingredients = %v, want [eggs]", p.Ingredients)
	}
}

func TestDetectThirdPersonCanDietEatIngredient(t *testing.T) {
	p := Detect("can jain eat onion?")
	if p.Intent != Mixed {
		t.Fatalf("intent = %s, want MIXED", p.Intent)
	}
	if p.ProfileUpdates.DietaryPreference != "Jain" {
		t.Fatalf("dietary_preference = %q, want Jain", p.ProfileUpdates.DietaryPreference)
	}
	if len(p.Ingredients) != 1 || p.Ingredients[0] != "onion" {
		t.Fatalf("ingredients = %v, want [onion]", p.Ingredients)
	}
}

func TestDetectThirdPersonIsIngredientDiet(t *testing.T) {
	p := Detect("is pork halal?")
	if p.Intent != Mixed {
		t.Fatalf("intent = %s, want MIXED", p.Intent)
	}
	if p.ProfileUpdates.DietaryPreference != "Halal" {
		t.Fatalf("dietary_preference = %q, want Halal", p.ProfileUpdates.DietaryPreference)
	}
	if len(p.Ingredients) != 1 || p.Ingredients[0] != "pork" {
		t.Fatalf("ingredients = %v, want [pork]", p.Ingredients)
	}
}

func TestDetectAllergenUpdate(t *testing.T) {
	p := Detect("I am allergic to peanuts and shellfish")
	if p.Intent != ProfileUpdate {
		t.Fatalf("intent = %s, want PROFILE_UPDATE", p.Intent)
	}
	want := map[string]bool{"peanuts": true, "shellfish": true}
	if len(p.ProfileUpdates.Allergens) != 2 {
		t.Fatalf("allergens = %v", p.ProfileUpdates.Allergens)
	}
	for _, a := range p.ProfileUpdates.Allergens {
		if !want[a] {
			t.Fatalf("unexpected allergen %q", a)
		}
	}
}

func TestDetectLifestyleUpdate(t *testing.T) {
	p := Detect("I don't eat onion")
	if p.Intent != ProfileUpdate {
		t.Fatalf("intent = %s, want PROFILE_UPDATE", p.Intent)
	}
	if len(p.ProfileUpdates.Lifestyle) != 1 || p.ProfileUpdates.Lifestyle[0] != "no onion" {
		t.Fatalf("lifestyle = %v, want [no onion]", p.ProfileUpdates.Lifestyle)
	}
}

func TestDetectProductContainerKeepsCompound(t *testing.T) {
	p := Detect("can I eat burger with chicken")
	if len(p.Ingredients) != 1 || p.Ingredients[0] != "burger with chicken" {
		t.Fatalf("ingredients = %v, want compound burger phrase preserved", p.Ingredients)
	}
}

func TestDetectWithSplitsAsConjunctionForNonProduct(t *testing.T) {
	p := Detect("can I eat eggs with jam")
	if len(p.Ingredients) != 2 {
		t.Fatalf("ingredients = %v, want 2 split parts", p.Ingredients)
	}
}

func TestDetectGeneralQuestion(t *testing.T) {
	p := Detect("What is gelatin made from?")
	if p.Intent != GeneralQuestion {
		t.Fatalf("intent = %s, want GENERAL_QUESTION", p.Intent)
	}
}

func TestDetectEmptyQueryIsGeneralQuestion(t *testing.T) {
	p := Detect("")
	if p.Intent != GeneralQuestion {
		t.Fatalf("intent = %s, want GENERAL_QUESTION", p.Intent)
	}
}

func TestDetectSlashUpdateCommand(t *testing.T) {
	p := Detect("/update diet vegan")
	if p.Intent != ProfileUpdate {
		t.Fatalf("intent = %s, want PROFILE_UPDATE", p.Intent)
	}
}
