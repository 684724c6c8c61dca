package intent

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// extractIngredientsViaProse is the last-resort ingredient extractor:
// when none of the regex patterns in detector.go match (a phrasing the
// rules never anticipated), tag the query's parts of speech and take
// its nouns as ingredient candidates. "no"/"without" immediately before a
// noun marks it as an exclusion instead of a candidate ingredient.
func extractIngredientsViaProse(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	doc, err := prose.NewDocument(query)
	if err != nil {
		return nil
	}

	tokens := doc.Tokens()
	var candidates []string
	seen := make(map[string]bool)

	for i, tok := range tokens {
		if !strings.HasPrefix(tok.Tag, "NN") {
			continue
		}
		lower := strings.ToLower(tok.Text)
		if ingredientStopwords[lower] {
			continue
		}
		if i > 0 {
			prev := strings.ToLower(tokens[i-1].Text)
			if prev == "no" || prev == "without" {
				continue
			}
		}
		if !seen[lower] {
			seen[lower] = true
			candidates = append(candidates, lower)
		}
	}

	return candidates
}
