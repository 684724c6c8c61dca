package normalize

import "regexp"

// tracePatterns match the label phrasing that introduces minor (<2%)
// ingredients on a US-style ingredient list: "CONTAINS 2% OR LESS OF:",
// "LESS THAN 2% OF", "<2% OF", etc.
var tracePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)less than 2%? of`),
	regexp.MustCompile(`(?i)<2%?\s*of`),
	regexp.MustCompile(`(?i)2%?\s*or less`),
	regexp.MustCompile(`(?i)contains 2%?\s*or less`),
	regexp.MustCompile(`(?i)\(\s*<\s*2\s*%?\s*\)`),
}

var (
	traceMarkerStrip   = regexp.MustCompile(`(?i)\s*<\s*2\s*%?\s*`)
	traceLessThanStrip = regexp.MustCompile(`(?i)\s*less than 2%?\s*of\s*:?\s*`)
	traceContainsStrip = regexp.MustCompile(`(?i)\s*contains 2%?\s*or less\s*(?:of\s*)?:?\s*`)
	leadingColonStrip  = regexp.MustCompile(`^\s*:+\s*`)
	leadingOfStrip     = regexp.MustCompile(`(?i)^\s*of\s*:?\s*`)
)

func isTraceSection(text string) bool {
	for _, pat := range tracePatterns {
		if pat.MatchString(text) {
			return true
		}
	}
	return false
}

// stripTraceMarkers removes the trace-introducing phrase itself from an
// atom so normalization doesn't choke on "contains 2% or less of: salt"
// and instead sees "salt".
func stripTraceMarkers(text string) string {
	t := traceMarkerStrip.ReplaceAllString(text, " ")
	t = traceLessThanStrip.ReplaceAllString(t, " ")
	t = traceContainsStrip.ReplaceAllString(t, " ")
	t = leadingColonStrip.ReplaceAllString(t, "")
	t = leadingOfStrip.ReplaceAllString(t, "")
	return trimSpace(t)
}

// PreprocessedAtom is one deduplicated ingredient atom with its trace
// (<2%) status.
type PreprocessedAtom struct {
	Name  string
	Trace bool
}

// PreprocessIngredients splits rawStr the same way FlattenIngredients
// does (commas outside parentheses, then parentheses) and normalizes
// each atom with Key; unlike FlattenIngredients it does not expand
// processed-food names into base ingredients. It marks every atom that
// follows a "contains 2% or less of"/"less than 2% of" marker as trace:
// once a marker is seen, every later atom in the list inherits the flag
// (real ingredient labels never reset back to "major" after the <2%
// disclaimer). Atoms are deduplicated by normalized key, keeping
// trace=true if any occurrence was marked trace.
func PreprocessIngredients(rawStr string) []PreprocessedAtom {
	rawStr = trimSpace(rawStr)
	if rawStr == "" {
		return nil
	}

	var rawFlat []string
	for _, seg := range splitOutsideParens(rawStr) {
		seg = trimSpace(seg)
		if seg == "" {
			continue
		}
		rawFlat = append(rawFlat, splitByParens(seg)...)
	}

	order := make([]string, 0, len(rawFlat))
	byKey := make(map[string]*PreprocessedAtom, len(rawFlat))
	traceUntilEnd := false

	for _, part := range rawFlat {
		partClean := stripTraceMarkers(part)
		if partClean == "" {
			continue
		}
		isTrace := traceUntilEnd || isTraceSection(part)
		if isTraceSection(part) {
			traceUntilEnd = true
		}
		key := Key(partClean)
		if key == "" {
			continue
		}
		if existing, ok := byKey[key]; ok {
			existing.Trace = existing.Trace || isTrace
			continue
		}
		atom := &PreprocessedAtom{Name: key, Trace: isTrace}
		byKey[key] = atom
		order = append(order, key)
	}

	out := make([]PreprocessedAtom, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
