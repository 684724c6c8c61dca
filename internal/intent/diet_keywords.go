package intent

import (
	"regexp"
	"sort"
	"strings"
)

// dietKeywords maps a free-text diet phrase to its canonical display
// name, as surfaced in profile updates and in the assistant's replies.
var dietKeywords = map[string]string{
	"hindu non vegetarian": "Hindu Non Vegetarian",
	"hindu non veg":        "Hindu Non Vegetarian",
	"hindu nonveg":         "Hindu Non Vegetarian",
	"hindu vegetarian":     "Hindu Veg",
	"lacto vegetarian":     "Lacto Vegetarian",
	"lacto-vegetarian":     "Lacto Vegetarian",
	"ovo vegetarian":       "Ovo Vegetarian",
	"ovo-vegetarian":       "Ovo Vegetarian",
	"hindu veg":            "Hindu Veg",
	"pescatarian":          "Pescatarian",
	"gluten free":          "Gluten-Free",
	"gluten-free":          "Gluten-Free",
	"dairy free":           "Dairy-Free",
	"dairy-free":           "Dairy-Free",
	"vegetarian":           "Vegetarian",
	"egg free":             "Egg-Free",
	"egg-free":             "Egg-Free",
	"vegan":                "Vegan",
	"halal":                "Halal",
	"kosher":                "Kosher",
	"jain":                  "Jain",
	"hindu":                 "Hindu Veg",
}

// dietPatternKeys holds the keys of dietKeywords sorted longest-first,
// so the combined regex alternation prefers the more specific phrase
// ("hindu non vegetarian") over a shorter prefix that would otherwise
// match first ("hindu").
var dietPatternKeys = sortedDietKeys()

func sortedDietKeys() []string {
	keys := make([]string, 0, len(dietKeywords))
	for k := range dietKeywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

func dietAlternation() string {
	escaped := make([]string, len(dietPatternKeys))
	for i, k := range dietPatternKeys {
		escaped[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(escaped, "|")
}

var dietAlternationPattern = dietAlternation()

// lookupDiet resolves a matched phrase (already lower-cased) to its
// canonical name, tolerating a trailing plural or possessive form
// ("vegans" / "jain's" → "vegan" / "jain").
func lookupDiet(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := dietKeywords[key]; ok {
		return canonical, true
	}
	if strings.HasSuffix(key, "'s") {
		if canonical, ok := dietKeywords[key[:len(key)-2]]; ok {
			return canonical, true
		}
	}
	if strings.HasSuffix(key, "s") {
		if canonical, ok := dietKeywords[key[:len(key)-1]]; ok {
			return canonical, true
		}
	}
	return "", false
}

// allDietNamesLower is the set of every recognized diet phrase,
// used to filter diet names that leak into an extracted ingredient list.
func allDietNamesLower() map[string]bool {
	out := make(map[string]bool, len(dietKeywords))
	for k := range dietKeywords {
		out[k] = true
	}
	return out
}
