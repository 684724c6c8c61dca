// Package normalize implements deterministic ingredient-string
// normalization and flattening. No LLM, no substring guessing: these
// are pure functions that produce an ontology lookup key, never a
// decision about safety.
package normalize

import (
	"regexp"
	"strings"
)

// knownVariants maps a normalized spelling variant to its canonical
// ontology key (e.g. "inglass" -> "isinglass", "eggs" -> "egg").
var knownVariants = map[string]string{
	"inglass":             "isinglass",
	"isinglass":           "isinglass",
	"fish gelatin":        "isinglass",
	"fish bladder":        "isinglass",
	"confectioners glaze":  "shellac",
	"confectioner's glaze": "shellac",
	"resinous glaze":       "shellac",
	"pharmaceutical glaze": "shellac",
	"e904":                 "shellac",
	"l cysteine":           "l-cysteine",
	"cysteine":             "l-cysteine",
	"e920":                 "l-cysteine",
	"wool grease":          "lanolin",
	"wool wax":             "lanolin",
	"wool fat":             "lanolin",
	"anchovie":             "anchovy",
	"anchovies":            "anchovy",
	"anchovy paste":        "anchovy",
	"anchovy extract":      "anchovy",
	"eggs":                 "egg",
	"onions":               "onion",
	"potatoes":             "potato",
	"tomatoes":             "tomato",
	"carrots":              "carrot",
	"mushrooms":            "mushroom",
	"almonds":              "almond",
	"walnuts":              "walnut",
	"cashews":              "cashew",
	"peanuts":              "peanut",
	"prawns":               "prawn",
	"shrimps":              "shrimp",
	"oats":                 "oat",
	"raisins":              "raisin",
	"olives":               "olive",
	"lemons":               "lemon",
	"limes":                "lime",
	"oranges":              "orange",
	"bananas":              "banana",
	"apples":               "apple",
	"grapes":               "grape",
	"berries":              "berry",
	"cherries":             "cherry",
	"strawberries":         "strawberry",
	"blueberries":          "blueberry",
	"raspberries":          "raspberry",
	"cranberries":          "cranberry",
	"sardines":             "sardine",
	"mackerels":            "mackerel",
	"clams":                "clam",
	"mussels":              "mussel",
	"oysters":              "oyster",
	"scallops":             "scallop",
	"lobsters":             "lobster",
	"crabs":                "crab",
	"gelatine":             "gelatin",
	"e120":                 "carmine",
	"e441":                 "gelatin",
	"e542":                 "bone phosphate",
	"e631":                 "disodium inosinate",
	"e901":                 "beeswax",
	"e966":                 "lactitol",
	"animal rennet":        "rennet",
}

var (
	punctuationRun = regexp.MustCompile(`[,;:\-\x{2013}\x{2014}]+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// Key produces a deterministic ontology lookup key for a raw ingredient
// string: lowercase, trim, collapse punctuation/whitespace, then apply
// known spelling variants. It performs no substring or fuzzy matching.
func Key(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, "*", "")
	t = strings.ReplaceAll(t, ".", "")
	t = punctuationRun.ReplaceAllString(t, " ")
	t = whitespaceRun.ReplaceAllString(t, " ")
	t = strings.TrimSpace(t)
	if canonical, ok := knownVariants[t]; ok {
		return canonical
	}
	return t
}

var tokenSplit = regexp.MustCompile(`[\n,;]`)

// Tokenize splits raw text into candidate ingredient tokens by comma,
// newline, or semicolon, normalizing each and dropping empties. It does
// not resolve or validate the tokens against any ontology.
func Tokenize(rawText string) []string {
	if rawText == "" {
		return nil
	}
	parts := tokenSplit.Split(rawText, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := Key(p); k != "" {
			out = append(out, k)
		}
	}
	return out
}
