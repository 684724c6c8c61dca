package composer

import (
	"fmt"
	"strings"

	"github.com/pageza/dietary-compliance-engine/internal/compliance"
	"github.com/pageza/dietary-compliance-engine/internal/profile"
)

func isPlural(ingredient string) bool {
	w := strings.ToLower(strings.TrimSpace(ingredient))
	if alwaysPlural[w] {
		return true
	}
	if singularSWords[w] {
		return false
	}
	return strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 2
}

func displayName(ingredient string) string {
	s := strings.TrimSpace(ingredient)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isProductWord(ingredient string) bool {
	return productWords[strings.ToLower(strings.TrimSpace(ingredient))]
}

func dietLabel(p profile.Profile) string {
	dp := p.DietaryPreference
	if dp != "" && dp != "No rules" {
		return dp
	}
	return "your dietary preferences"
}

func normalizeForMatch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "es") && len(s) > 3 {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(s, "s") && len(s) > 2 {
		return s[:len(s)-1]
	}
	return s
}

func ingredientReason(ingredient string) string {
	key := strings.ToLower(strings.TrimSpace(ingredient))
	if reason, ok := ingredientReasons[key]; ok {
		return reason
	}
	if reason, ok := ingredientReasons[normalizeForMatch(key)]; ok {
		return reason
	}
	return "may conflict with your dietary requirements"
}

func restrictionLabel(restrictionID string) string {
	if label, ok := restrictionDisplay[restrictionID]; ok {
		return label
	}
	return strings.ReplaceAll(restrictionID, "_", " ")
}

// Greeting returns the assistant's standard opening reply.
func Greeting() string {
	return "Hello! I'm your grocery safety assistant. " +
		"Tell me your dietary preferences and ask about any ingredient — " +
		"I'll let you know if it's suitable for you."
}

// GeneralQuestion is the fallback reply for queries outside the
// assistant's scope (general nutrition trivia, recipe requests, etc).
func GeneralQuestion() string {
	return "I'm best at checking whether specific ingredients are safe for your dietary profile. " +
		"Try asking something like: **\"Can I eat eggs?\"** or paste an ingredient list and I'll analyze it."
}

// NoIngredients is the reply when a query carried no ingredients to check.
func NoIngredients() string {
	return "It looks like you didn't mention any specific ingredients. " +
		"Try something like **\"Can I eat eggs?\"** or paste an ingredient list from a product label."
}

// UpdatedFields names which profile fields changed in this turn, in
// the order they should be acknowledged.
type UpdatedFields struct {
	DietaryPreference *string
	Allergens         []string
	RemoveAllergens   []string
	Lifestyle         []string
}

func pluralSuffix(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}

// ProfileUpdate acknowledges a profile update, optionally hinting that
// the user can now ask about ingredients.
func ProfileUpdate(fields UpdatedFields, hasIngredients bool) string {
	var parts []string

	if fields.DietaryPreference != nil {
		parts = append(parts, fmt.Sprintf("Got it — I've updated your profile to **%s**.", *fields.DietaryPreference))
	}
	if len(fields.Allergens) > 0 {
		parts = append(parts, fmt.Sprintf("Noted your allergen%s: **%s**.", pluralSuffix(len(fields.Allergens)), strings.Join(fields.Allergens, ", ")))
	}
	if len(fields.RemoveAllergens) > 0 {
		parts = append(parts, fmt.Sprintf("Removed allergen%s: **%s**.", pluralSuffix(len(fields.RemoveAllergens)), strings.Join(fields.RemoveAllergens, ", ")))
	}
	if len(fields.Lifestyle) > 0 {
		parts = append(parts, fmt.Sprintf("Lifestyle preference%s saved: **%s**.", pluralSuffix(len(fields.Lifestyle)), strings.Join(fields.Lifestyle, ", ")))
	}

	if !hasIngredients {
		parts = append(parts, "What would you like me to check for you?")
	}
	return strings.Join(parts, " ")
}

func normSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[normalizeForMatch(i)] = true
	}
	return out
}

// Verdict converts a compliance verdict into a conversational answer.
// displayNames optionally maps a lowercased ingredient (or its
// normalized singular form) to a compound display name, e.g.
// {"chicken": "burger with chicken"}, so the reply shows the full
// product name the user actually typed.
func Verdict(v compliance.Verdict, p profile.Profile, ingredients []string, profileWasUpdated bool, updatedFields *UpdatedFields, displayNames map[string]string) string {
	var parts []string
	diet := dietLabel(p)
	dn := displayNames
	if dn == nil {
		dn = map[string]string{}
	}

	show := func(ing string) string {
		key := strings.ToLower(strings.TrimSpace(ing))
		if compound, ok := dn[key]; ok {
			return displayName(compound)
		}
		if compound, ok := dn[normalizeForMatch(ing)]; ok {
			return displayName(compound)
		}
		return displayName(ing)
	}

	if profileWasUpdated && updatedFields != nil {
		parts = append(parts, ProfileUpdate(*updatedFields, true))
		parts = append(parts, "")
	}

	triggered := v.TriggeredIngredients
	uncertain := v.UncertainIngredients
	triggeredNorm := normSet(triggered)
	uncertainNorm := normSet(uncertain)

	var safeIngredients []string
	for _, i := range ingredients {
		n := normalizeForMatch(i)
		if !triggeredNorm[n] && !uncertainNorm[n] {
			safeIngredients = append(safeIngredients, i)
		}
	}

	var meaningfulSafe []string
	for _, i := range safeIngredients {
		if !isProductWord(i) {
			meaningfulSafe = append(meaningfulSafe, i)
		}
	}

	if len(dn) > 0 {
		dnLookup := func(ingredient string) (string, bool) {
			key := strings.ToLower(strings.TrimSpace(ingredient))
			if v, ok := dn[key]; ok {
				return v, true
			}
			if v, ok := dn[normalizeForMatch(ingredient)]; ok {
				return v, true
			}
			return "", false
		}
		triggeredDisplay := map[string]bool{}
		for _, i := range triggered {
			if d, ok := dnLookup(i); ok {
				triggeredDisplay[d] = true
			}
		}
		var filtered []string
		for _, s := range meaningfulSafe {
			if d, ok := dnLookup(s); ok && triggeredDisplay[d] {
				continue
			}
			filtered = append(filtered, s)
		}
		meaningfulSafe = filtered
	}

	switch v.Status {
	case compliance.StatusNotSafe:
		restrictions := v.TriggeredRestrictions

		switch {
		case len(triggered) == 1 && len(meaningfulSafe) == 0 && len(uncertain) == 0:
			ing := triggered[0]
			reason := ingredientReason(ing)
			name := show(ing)
			verb := "is"
			if isPlural(ing) {
				verb = "are"
			}
			parts = append(parts, fmt.Sprintf("Based on your **%s** diet, **%s** %s **not suitable** — %s.", diet, name, verb, reason))
		case len(triggered) > 0:
			verbBe := "is"
			if len(triggered) > 1 {
				verbBe = "are"
			}
			parts = append(parts, fmt.Sprintf("Based on your **%s** diet, the following %s **not suitable**:\n", diet, verbBe))
			for _, ing := range triggered {
				parts = append(parts, fmt.Sprintf("- **%s** — %s", show(ing), ingredientReason(ing)))
			}
		default:
			limit := len(restrictions)
			if limit > 3 {
				limit = 3
			}
			labels := make([]string, 0, limit)
			for _, r := range restrictions[:limit] {
				labels = append(labels, restrictionLabel(r))
			}
			parts = append(parts, fmt.Sprintf("This doesn't appear to be compatible with your **%s** diet (conflicts with: %s).", diet, strings.Join(labels, ", ")))
		}

		if len(meaningfulSafe) == 1 {
			s := meaningfulSafe[0]
			verb := "is"
			if isPlural(s) {
				verb = "are"
			}
			parts = append(parts, fmt.Sprintf("\n**%s** %s fine for your diet.", show(s), verb))
		} else if len(meaningfulSafe) > 1 {
			items := make([]string, len(meaningfulSafe))
			for i, s := range meaningfulSafe {
				items[i] = "**" + show(s) + "**"
			}
			parts = append(parts, fmt.Sprintf("\nThe rest — %s — are fine for your diet.", strings.Join(items, ", ")))
		}

		if len(uncertain) > 0 {
			items := make([]string, len(uncertain))
			for i, u := range uncertain {
				items[i] = "**" + show(u) + "**"
			}
			parts = append(parts, fmt.Sprintf("\nCouldn't verify %s — may need manual checking.", strings.Join(items, ", ")))
		}

		if len(v.InformationalIngredients) > 0 && v.ConfidenceScore < 1.0 {
			parts = append(parts, fmt.Sprintf("\n_Note: %s — present in trace amounts, flagged at low confidence._", strings.Join(v.InformationalIngredients, ", ")))
		}

	case compliance.StatusSafe:
		meaningfulIngs := make([]string, 0, len(ingredients))
		for _, i := range ingredients {
			if !isProductWord(i) {
				meaningfulIngs = append(meaningfulIngs, i)
			}
		}
		if len(meaningfulIngs) == 0 {
			meaningfulIngs = ingredients
		}

		if len(meaningfulIngs) == 1 {
			ing := meaningfulIngs[0]
			verb := "is"
			if isPlural(ing) {
				verb = "are"
			}
			parts = append(parts, fmt.Sprintf("**%s** %s perfectly fine for your **%s** diet.", show(ing), verb, diet))
		} else {
			items := make([]string, len(meaningfulIngs))
			for i, ing := range meaningfulIngs {
				items[i] = "**" + show(ing) + "**"
			}
			parts = append(parts, fmt.Sprintf("All good — %s are compatible with your **%s** diet.", strings.Join(items, ", "), diet))
		}
		if len(v.InformationalIngredients) > 0 && v.ConfidenceScore < 1.0 {
			parts = append(parts, fmt.Sprintf("\n_Note: %s — present in trace amounts._", strings.Join(v.InformationalIngredients, ", ")))
		}

	case compliance.StatusUncertain:
		if len(uncertain) > 0 {
			items := make([]string, len(uncertain))
			for i, u := range uncertain {
				items[i] = "**" + show(u) + "**"
			}
			parts = append(parts, fmt.Sprintf("Couldn't find reliable information about %s — may require manual verification before consumption.", strings.Join(items, ", ")))
			if len(meaningfulSafe) > 0 {
				items := make([]string, len(meaningfulSafe))
				for i, s := range meaningfulSafe {
					items[i] = "**" + show(s) + "**"
				}
				parts = append(parts, fmt.Sprintf("\nThe rest — %s — are fine for your diet.", strings.Join(items, ", ")))
			}
		} else {
			items := make([]string, len(ingredients))
			for i, ing := range ingredients {
				items[i] = "**" + show(ing) + "**"
			}
			parts = append(parts, fmt.Sprintf("Wasn't able to determine the safety of %s with certainty. Please double-check the packaging or consult a specialist.", strings.Join(items, ", ")))
		}
	}

	return strings.Join(parts, "\n")
}
