// Package compound expands compound product names ("garlic pasta",
// "burger with chicken") into the restricted-ingredient keywords they
// imply, for both explicit ("X with Y") and implicit multi-word
// compound names.
package compound

import (
	"regexp"
	"strings"
)

var restrictedBigrams = map[string]bool{
	"sweet potato": true,
	"fish oil":     true,
	"palm oil":     true,
}

var restrictedSingle = map[string]bool{
	"egg": true, "eggs": true, "chicken": true, "beef": true, "pork": true, "lamb": true, "fish": true,
	"tuna": true, "salmon": true, "shrimp": true, "prawn": true, "crab": true, "lobster": true,
	"bacon": true, "ham": true, "turkey": true, "duck": true, "veal": true, "mutton": true,
	"anchovy": true, "sardine": true, "squid": true, "octopus": true, "venison": true, "goat": true,
	"milk": true, "cheese": true, "butter": true, "cream": true, "yogurt": true, "ghee": true,
	"paneer": true, "whey": true, "curd": true,
	"garlic": true, "onion": true, "potato": true, "carrot": true, "ginger": true,
	"beet": true, "beetroot": true, "radish": true, "turnip": true, "shallot": true, "leek": true, "yam": true,
	"mushroom": true, "truffle": true,
	"gelatin": true, "honey": true, "lard": true, "alcohol": true, "wine": true, "beer": true,
	"peanut": true, "almond": true, "walnut": true, "cashew": true, "hazelnut": true, "pecan": true,
	"soy": true, "tofu": true, "wheat": true, "barley": true, "rye": true, "oat": true, "oats": true,
	"collagen": true, "rennet": true, "shellac": true, "carmine": true,
}

// plantModifiers neutralize the following dairy/meat word — "coconut
// milk" is plant-based, not dairy.
var plantModifiers = map[string]bool{
	"coconut": true, "almond": true, "soy": true, "oat": true, "oats": true, "rice": true, "cashew": true,
	"hemp": true, "pea": true, "cocoa": true, "shea": true, "sesame": true, "flax": true, "hazelnut": true,
	"peanut": true, "walnut": true, "pistachio": true, "macadamia": true, "pecan": true,
}

// FindSubIngredients extracts known restricted-ingredient keywords from
// a compound name: "garlic pasta" -> ["garlic"], "coconut milk" -> []
// (the plant modifier neutralizes "milk"), "butter chicken" ->
// ["butter", "chicken"].
func FindSubIngredients(name string) []string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) <= 1 {
		return nil
	}
	var found []string
	for i := 0; i < len(words); i++ {
		if i+1 < len(words) {
			bigram := words[i] + " " + words[i+1]
			if restrictedBigrams[bigram] {
				found = append(found, bigram)
				i++
				continue
			}
		}
		if restrictedSingle[words[i]] {
			if i > 0 && plantModifiers[words[i-1]] {
				continue
			}
			found = append(found, words[i])
		}
	}
	return found
}

var withPattern = regexp.MustCompile(`(?i)^(.+?)\s+with\s+(.+)$`)

// Expand expands compound items for compliance evaluation, returning
// the flat list of ingredient names to feed the compliance engine and a
// display map from lowercased evaluation name back to the original
// compound product name (used by the response composer to say "this
// dish contains chicken" rather than surfacing the raw internal key).
func Expand(ingredients []string) (expanded []string, displayMap map[string]string) {
	displayMap = make(map[string]string)
	seen := make(map[string]bool)

	for _, ing := range ingredients {
		if m := withPattern.FindStringSubmatch(ing); m != nil {
			sub := strings.TrimSpace(m[2])
			key := strings.ToLower(sub)
			if !seen[key] {
				seen[key] = true
				expanded = append(expanded, sub)
				displayMap[key] = ing
			}
			continue
		}

		trimmed := strings.TrimSpace(ing)
		if !strings.Contains(trimmed, " ") {
			key := strings.ToLower(trimmed)
			if !seen[key] {
				seen[key] = true
				expanded = append(expanded, ing)
			}
			continue
		}

		subs := FindSubIngredients(ing)
		if len(subs) > 0 {
			covered := make(map[string]bool)
			for _, s := range subs {
				for _, w := range strings.Fields(s) {
					covered[w] = true
				}
			}
			isCompoundProduct := false
			for _, w := range strings.Fields(strings.ToLower(ing)) {
				if !covered[w] {
					isCompoundProduct = true
					break
				}
			}

			for _, sub := range subs {
				key := strings.ToLower(sub)
				if !seen[key] {
					seen[key] = true
					expanded = append(expanded, sub)
					if isCompoundProduct {
						displayMap[key] = ing
					}
				}
			}
		} else {
			key := strings.ToLower(trimmed)
			if !seen[key] {
				seen[key] = true
				expanded = append(expanded, ing)
			}
		}
	}

	return expanded, displayMap
}
