package normalize

import "regexp"

// processedFoodToBase maps a common processed-food name to the base
// ingredients it is deterministically expanded into. This is data, not
// inference: an unlisted processed food is left as a single flattened
// token rather than guessed at.
var processedFoodToBase = map[string][]string{
	"potato chips":    {"potato", "vegetable oil", "salt"},
	"potato chip":     {"potato", "vegetable oil", "salt"},
	"french fries":    {"potato", "vegetable oil", "salt"},
	"french fry":      {"potato", "vegetable oil", "salt"},
	"tortilla chips":  {"corn", "vegetable oil", "salt"},
	"tortilla chip":   {"corn", "vegetable oil", "salt"},
	"corn chips":      {"corn", "vegetable oil", "salt"},
	"corn chip":       {"corn", "vegetable oil", "salt"},
	"pretzels":        {"wheat flour", "salt", "yeast"},
	"pretzel":         {"wheat flour", "salt", "yeast"},
	"crackers":        {"wheat flour", "vegetable oil", "salt"},
	"cracker":         {"wheat flour", "vegetable oil", "salt"},
	"bread":           {"wheat flour", "water", "salt", "yeast"},
	"white bread":     {"wheat flour", "water", "salt", "yeast"},
	"pasta":           {"wheat flour", "water", "egg"},
	"spaghetti":       {"wheat flour", "water", "egg"},
	"macaroni":        {"wheat flour", "water", "egg"},
	"noodles":         {"wheat flour", "water", "egg"},
	"rice noodles":    {"rice flour", "water"},
	"couscous":        {"wheat flour", "water"},
	"hummus":          {"chickpea", "sesame", "olive oil", "lemon", "garlic"},
	"ketchup":         {"tomato", "sugar", "vinegar", "salt"},
	"mustard":         {"mustard seed", "vinegar", "salt"},
	"mayonnaise":      {"egg", "vegetable oil", "vinegar"},
	"salsa":           {"tomato", "onion", "pepper", "lime", "salt"},
	"soy sauce":       {"soybean", "wheat", "salt", "water"},
	"teriyaki sauce":  {"soy sauce", "sugar", "ginger", "garlic"},
	"bbq sauce":       {"tomato", "vinegar", "sugar", "molasses"},
	"hot sauce":       {"pepper", "vinegar", "salt"},
	"peanut butter":   {"peanut", "salt", "vegetable oil"},
	"almond butter":   {"almond", "salt", "vegetable oil"},
	"jam":             {"fruit", "sugar", "pectin"},
	"jelly":           {"fruit juice", "sugar", "pectin"},
	"marmalade":       {"citrus", "sugar", "pectin"},
	"chocolate":       {"cocoa", "sugar", "cocoa butter", "milk"},
	"dark chocolate":  {"cocoa", "sugar", "cocoa butter"},
	"milk chocolate":  {"cocoa", "sugar", "cocoa butter", "milk"},
	"ice cream":       {"milk", "cream", "sugar", "egg"},
	"yogurt":          {"milk", "bacterial culture"},
	"cheese":          {"milk", "salt", "rennet"},
	"butter":          {"milk", "salt"},
	"tofu":            {"soybean", "water"},
	"tempeh":          {"soybean", "water"},
	"seitan":          {"wheat gluten", "water"},
	"plant-based meat": {"soy", "wheat", "vegetable oil", "flavoring"},
	"veggie burger":   {"vegetable", "legume", "grain", "binding"},
	"vegan cheese":    {"coconut oil", "starch", "flavoring"},
	"oat milk":        {"oat", "water"},
	"almond milk":     {"almond", "water"},
	"soy milk":        {"soybean", "water"},
	"rice milk":       {"rice", "water"},
	"coconut milk":    {"coconut", "water"},
}

// splitByParens splits text on its top-level parentheses; commas inside
// a parenthesized group become separate items and the group is
// recursively flattened, so
// "Enriched Flour (Wheat Flour, Niacin, Iron)" becomes
// ["Enriched Flour", "Wheat Flour", "Niacin", "Iron"].
func splitByParens(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '(':
			if depth == 0 && i > start {
				if chunk := trimSpace(string(runes[start:i])); chunk != "" {
					out = append(out, chunk)
				}
			}
			depth++
			if depth == 1 {
				start = i + 1
			}
		case ')':
			depth--
			if depth == 0 {
				inner := trimSpace(string(runes[start:i]))
				if inner != "" {
					for _, part := range commaSplit.Split(inner, -1) {
						if p := trimSpace(part); p != "" {
							out = append(out, splitByParens(p)...)
						}
					}
				}
				start = i + 1
			}
		}
	}
	if depth == 0 && start < len(runes) {
		if chunk := trimSpace(string(runes[start:])); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

var commaSplit = regexp.MustCompile(`\s*,\s*`)

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// splitOutsideParens splits raw on commas that are not inside a
// parenthesized group. Go's regexp (RE2) has no lookahead, so this
// walks the string tracking paren depth instead of mirroring the
// original's `,(?![^(]*\))` lookahead regex.
func splitOutsideParens(raw string) []string {
	var out []string
	depth := 0
	start := 0
	runes := []rune(raw)
	for i, r := range runes {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, string(runes[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, string(runes[start:]))
	return out
}

// FlattenIngredients flattens a raw ingredient-list string into
// deduplicated, order-preserved, normalized base ingredient tokens:
//  1. if the whole string is a known processed food, return its base map
//  2. otherwise split on commas outside parentheses, then by
//     parentheses, checking each resulting atom against the processed
//     food map before normalizing it as a standalone token
func FlattenIngredients(rawStr string) []string {
	rawStr = trimSpace(rawStr)
	if rawStr == "" {
		return nil
	}

	if base, ok := processedFoodToBase[Key(rawStr)]; ok {
		out := make([]string, len(base))
		copy(out, base)
		return out
	}

	var flat []string
	for _, seg := range splitOutsideParens(rawStr) {
		seg = trimSpace(seg)
		if seg == "" {
			continue
		}
		for _, part := range splitByParens(seg) {
			part = trimSpace(part)
			if part == "" {
				continue
			}
			key := Key(part)
			if base, ok := processedFoodToBase[key]; ok {
				flat = append(flat, base...)
			} else if key != "" {
				flat = append(flat, key)
			}
		}
	}

	seen := make(map[string]bool, len(flat))
	result := make([]string, 0, len(flat))
	for _, item := range flat {
		if item != "" && !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
