package composer

import (
	"strings"
	"testing"

	"github.com/pageza/dietary-compliance-engine/internal/compliance"
	"github.com/pageza/dietary-compliance-engine/internal/profile"
)

func TestVerdictSafeSingleIngredient(t *testing.T) {
	v := compliance.Verdict{Status: compliance.StatusSafe, ConfidenceScore: 1.0}
	p := profile.Profile{DietaryPreference: "Vegan"}
	out := Verdict(v, p, []string{"tofu"}, false, nil, nil)
	if !strings.Contains(out, "Tofu") || !strings.Contains(out, "perfectly fine") {
		t.Fatalf("output = %q", out)
	}
}

func TestVerdictNotSafeSingleIngredientGivesReason(t *testing.T) {
	v := compliance.Verdict{
		Status:                compliance.StatusNotSafe,
		TriggeredIngredients:  []string{"gelatin"},
		TriggeredRestrictions: []string{"vegan"},
		ConfidenceScore:       1.0,
	}
	p := profile.Profile{DietaryPreference: "Vegan"}
	out := Verdict(v, p, []string{"gelatin"}, false, nil, nil)
	if !strings.Contains(out, "Gelatin") || !strings.Contains(out, "not suitable") || !strings.Contains(out, "animal bones") {
		t.Fatalf("output = %q", out)
	}
}

func TestVerdictNotSafeWithSafeRemainder(t *testing.T) {
	v := compliance.Verdict{
		Status:                compliance.StatusNotSafe,
		TriggeredIngredients:  []string{"gelatin"},
		TriggeredRestrictions: []string{"vegan"},
		ConfidenceScore:       1.0,
	}
	p := profile.Profile{DietaryPreference: "Vegan"}
	out := Verdict(v, p, []string{"gelatin", "tofu"}, false, nil, nil)
	if !strings.Contains(out, "fine for your diet") {
		t.Fatalf("expected safe remainder note, got %q", out)
	}
}

func TestVerdictUncertainNoSafeRemainder(t *testing.T) {
	v := compliance.Verdict{
		Status:               compliance.StatusUncertain,
		UncertainIngredients: []string{"unobtainium"},
		ConfidenceScore:      0.5,
	}
	p := profile.Profile{DietaryPreference: "Vegan"}
	out := Verdict(v, p, []string{"unobtainium"}, false, nil, nil)
	if !strings.Contains(out, "Couldn't find reliable information") {
		t.Fatalf("output = %q", out)
	}
}

func TestProfileUpdateAcknowledgesDietChange(t *testing.T) {
	diet := "Vegan"
	out := ProfileUpdate(UpdatedFields{DietaryPreference: &diet}, false)
	if !strings.Contains(out, "**Vegan**") || !strings.Contains(out, "What would you like me to check") {
		t.Fatalf("output = %q", out)
	}
}

func TestProfileUpdateSkipsPromptWhenIngredientsFollow(t *testing.T) {
	diet := "Vegan"
	out := ProfileUpdate(UpdatedFields{DietaryPreference: &diet}, true)
	if strings.Contains(out, "What would you like me to check") {
		t.Fatalf("expected no follow-up prompt when ingredients already present, got %q", out)
	}
}

func TestGreetingAndGeneralQuestionAreStable(t *testing.T) {
	if Greeting() == "" || GeneralQuestion() == "" || NoIngredients() == "" {
		t.Fatal("expected non-empty canned replies")
	}
}

func TestValidateResponseRejectsContradiction(t *testing.T) {
	ok := validateResponse("gelatin is perfectly fine and safe for you.", []string{"gelatin"}, nil)
	if ok {
		t.Fatal("expected validation to reject a NOT_SAFE ingredient described as safe")
	}
}

func TestValidateResponseAcceptsConsistentNarration(t *testing.T) {
	ok := validateResponse("gelatin is not suitable for your diet. tofu is fine.", []string{"gelatin"}, []string{"tofu"})
	if !ok {
		t.Fatal("expected validation to accept a consistent narration")
	}
}
