// Package intent turns a free-form chat message into structured
// intent: a profile update, an ingredient safety query, both at once,
// a greeting, or a general question. Detection is rule-based regex
// matching with no LLM in the loop; llm.go provides an optional
// Ollama-backed fallback for queries the rules can't parse.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified shape of a parsed query.
type Intent string

const (
	ProfileUpdate   Intent = "PROFILE_UPDATE"
	IngredientQuery Intent = "INGREDIENT_QUERY"
	Mixed           Intent = "MIXED"
	Greeting        Intent = "GREETING"
	GeneralQuestion Intent = "GENERAL_QUESTION"
)

// ProfileUpdates is the set of profile fields a query asked to change.
// Pointer/slice fields are nil when the query didn't mention them.
type ProfileUpdates struct {
	DietaryPreference string   `json:"dietary_preference,omitempty"`
	Allergens         []string `json:"allergens,omitempty"`
	RemoveAllergens   []string `json:"remove_allergens,omitempty"`
	Lifestyle         []string `json:"lifestyle,omitempty"`
}

func (p ProfileUpdates) isEmpty() bool {
	return p.DietaryPreference == "" && len(p.Allergens) == 0 && len(p.RemoveAllergens) == 0 && len(p.Lifestyle) == 0
}

// ParsedIntent is the result of detecting intent in a query.
type ParsedIntent struct {
	Intent         Intent
	ProfileUpdates ProfileUpdates
	Ingredients    []string
	OriginalQuery  string
}

func (p ParsedIntent) HasProfileUpdate() bool { return !p.ProfileUpdates.isEmpty() }
func (p ParsedIntent) HasIngredients() bool   { return len(p.Ingredients) > 0 }

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

var profilePatterns = []*regexp.Regexp{
	mustCompile(`\b(?:i\s+am|i'm|im)\s+(?:a\s+)?(` + dietAlternationPattern + `)\b`),
	mustCompile(`\b(?:i\s+follow|i\s+eat|my\s+diet\s+is)\s+(?:a\s+|the\s+)?(` + dietAlternationPattern + `)\s*(?:diet|lifestyle)?\b`),
	mustCompile(`\bi(?:'m| am)\s+on\s+(?:a\s+)?(` + dietAlternationPattern + `)\s*(?:diet)?\b`),
	mustCompile(`\b(?:my\s+religion\s+is|i\s+practice)\s+(` + dietAlternationPattern + `)\b`),
	mustCompile(`\b(?:i\s+eat)\s+(` + dietAlternationPattern + `)\b`),
	mustCompile(`\bswitch(?:ing)?\s+(?:to|my\s+diet\s+to)\s+(` + dietAlternationPattern + `)\b`),
}

var allergenPatterns = []*regexp.Regexp{
	mustCompile(`\b(?:i'm|i\s+am)\s+allergic\s+to\s+(.+?)(?:\.|,\s*(?:can|is|and)|$)`),
	mustCompile(`\b(?:i\s+have)\s+(?:a\s+)?(.+?)\s+allergy\b`),
	mustCompile(`\b(?:my\s+allerg(?:ies|y|ens?)\s+(?:are|is))\s+(.+?)(?:\.|$)`),
	mustCompile(`\b(?:add|set)\s+(?:my\s+)?allerg(?:ens?|ies?)\s+(?:to\s+)?(.+?)(?:\.|$)`),
}

var allergenRemovePatterns = []*regexp.Regexp{
	mustCompile(`\b(?:remove|delete|drop|clear)\s+(.+?)\s+(?:from\s+)?(?:my\s+)?allerg(?:ens?|ies?)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:i'm\s+not|i\s+am\s+not|i'm\s+no\s+longer)\s+allergic\s+to\s+(.+?)[\?\.\!]?\s*$`),
}

var lifestylePatterns = []*regexp.Regexp{
	mustCompile(`\b(?:i\s+don't|i\s+do\s+not|i\s+can't|no)\s+(?:eat|drink|consume|have)\s+(alcohol|onion|garlic|onions|garlics?)\b`),
	mustCompile(`\b(?:i\s+avoid|no)\s+(alcohol|onion|garlic|palm\s+oil|onions|garlics?|seed\s+oils?|gmos?|artificial\s+colors?)\b`),
	mustCompile(`\b(?:set|add|update)\s+(?:my\s+)?lifestyle\s+(?:to\s+)?(.+?)[\?\.\!]?\s*$`),
}

var lifestyleMap = map[string]string{
	"alcohol": "no alcohol", "onion": "no onion", "onions": "no onion",
	"garlic": "no garlic", "garlics": "no garlic",
	"palm oil": "no palm oil", "seed oil": "no seed oils", "seed oils": "no seed oils",
	"gmo": "no gmos", "gmos": "no gmos",
	"artificial color": "no artificial colors", "artificial colors": "no artificial colors",
}

var dietAlternationPlural = `(?:` + dietAlternationPattern + `)(?:s|'s)?`

var thirdPersonPatterns = []*regexp.Regexp{
	mustCompile(`\bcan\s+(?:a\s+)?(` + dietAlternationPlural + `)(?:\s+(?:people|person|persons))?\s+(?:eat|have|consume|use)\s+(.+?)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:does|do)\s+(?:a\s+|the\s+)?(` + dietAlternationPlural + `)(?:\s+(?:diet|people|person))?\s+(?:allow|permit|include|restrict|forbid|ban)\s+(.+?)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:is|are)\s+(.+?)\s+(` + dietAlternationPlural + `)(?:\s+(?:safe|friendly|compatible|compliant|approved))?[\?\.\!]?\s*$`),
}

// thirdPersonIngredientFirst marks which thirdPersonPatterns entries
// capture the ingredient before the diet (pattern 3: "is X jain?").
var thirdPersonIngredientFirst = []bool{false, false, true}

var ingredientQueryPatterns = []*regexp.Regexp{
	mustCompile(`\bcan\s+i\s+(?:eat|have|consume|take|use)\s+(.+?)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:is|are)\s+(.+?)\s+(?:safe|ok|okay|allowed|permitted|suitable|fine|good|acceptable|compatible)(?:\s+(?:for\s+me|for\s+my\s+diet|to\s+eat))?[\?\.\!]?\s*$`),
	mustCompile(`^(.+?)\s+(?:safe|ok|okay|allowed|permitted|suitable|fine|good)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:what|how)\s+about\s+(.+?)[\?\.\!]?\s*$`),
	mustCompile(`^\s*(?:check|analyze|evaluate|test|verify)\s+(.+?)[\?\.\!]?\s*$`),
	mustCompile(`\b(?:ingredients?)\s*[:;]\s*(.+)`),
}

var greetingRE = mustCompile(`^\s*(?:hi|hello|hey|howdy|good\s+(?:morning|afternoon|evening)|greetings|what'?s?\s+up|yo)(?:\s*[,!.]?\s*(?:how\s+(?:are\s+you|is\s+it\s+going|do\s+you\s+do|are\s+things)|how'?s?\s+(?:it\s+going|everything|life)|nice\s+to\s+meet\s+you|there|everyone|all))?\s*[\?\.\!]?\s*$`)

var conversationalRE = mustCompile(`^\s*(?:how\s+are\s+you|how'?s?\s+it\s+going|how\s+do\s+you\s+do|thank\s*(?:s| you)|thanks?\s+a\s+lot|much\s+appreciated|ok(?:ay)?|cool|nice|great|awesome|got\s+it|understood|bye|goodbye|see\s+you|take\s+care|good\s+night|yes|no|nope|yep|yeah|sure|nah|what\s+can\s+you\s+do|who\s+are\s+you|what\s+are\s+you)\s*[\?\.\!]?\s*$`)

var generalQuestionPatterns = []*regexp.Regexp{
	mustCompile(`\bwhat\s+is\s+`),
	mustCompile(`\btell\s+me\s+about\s+`),
	mustCompile(`\bwhere\s+does\s+.+?\s+come\s+from\b`),
	mustCompile(`\bhow\s+(?:is|are)\s+.+?\s+made\b`),
	mustCompile(`\bexplain\b`),
	mustCompile(`\b(?:suggest|recommend|brainstorm|alternative|substitute|replace|instead|option|recipe)\b`),
}

var whitespaceRE = regexp.MustCompile(`\s+`)
var leadingPunctRE = regexp.MustCompile(`^\s*[,;.]+\s*`)

// extractDiet finds the first diet phrase mentioned and returns the
// canonical name plus the query with that phrase removed.
func extractDiet(query string) (string, string) {
	for _, pat := range profilePatterns {
		loc := pat.FindStringSubmatchIndex(query)
		if loc == nil {
			continue
		}
		matched := query[loc[2]:loc[3]]
		canonical, ok := lookupDiet(matched)
		if !ok {
			continue
		}
		remaining := strings.TrimSpace(query[:loc[0]] + " " + query[loc[1]:])
		remaining = leadingPunctRE.ReplaceAllString(remaining, "")
		remaining = whitespaceRE.ReplaceAllString(strings.TrimSpace(remaining), " ")
		return canonical, remaining
	}
	return "", query
}

var splitConjunctionRE = regexp.MustCompile(`(?i)\s*(?:,|and)\s*`)

func extractAllergens(query string) ([]string, string) {
	var allergens []string
	remaining := query
	for _, pat := range allergenPatterns {
		loc := pat.FindStringSubmatchIndex(remaining)
		if loc == nil {
			continue
		}
		raw := strings.TrimSpace(remaining[loc[2]:loc[3]])
		for _, a := range splitConjunctionRE.Split(raw, -1) {
			a = strings.ToLower(strings.TrimSpace(a))
			if a != "" {
				allergens = append(allergens, a)
			}
		}
		remaining = strings.TrimSpace(remaining[:loc[0]] + " " + remaining[loc[1]:])
		remaining = whitespaceRE.ReplaceAllString(remaining, " ")
	}
	return allergens, remaining
}

func extractAllergenRemovals(query string) ([]string, string) {
	var removals []string
	remaining := query
	for _, pat := range allergenRemovePatterns {
		loc := pat.FindStringSubmatchIndex(remaining)
		if loc == nil {
			continue
		}
		raw := strings.TrimSpace(remaining[loc[2]:loc[3]])
		for _, a := range splitConjunctionRE.Split(raw, -1) {
			a = strings.ToLower(strings.TrimSpace(a))
			if a != "" {
				removals = append(removals, a)
			}
		}
		remaining = strings.TrimSpace(remaining[:loc[0]] + " " + remaining[loc[1]:])
		remaining = whitespaceRE.ReplaceAllString(remaining, " ")
	}
	return removals, remaining
}

func extractLifestyle(query string) ([]string, string) {
	var flags []string
	remaining := query
	for _, pat := range lifestylePatterns {
		loc := pat.FindStringSubmatchIndex(remaining)
		if loc == nil {
			continue
		}
		keyword := strings.ToLower(strings.TrimSpace(remaining[loc[2]:loc[3]]))
		flag, ok := lifestyleMap[keyword]
		if !ok {
			flag = "no " + keyword
		}
		if flag != "" && !containsString(flags, flag) {
			flags = append(flags, flag)
		}
		remaining = strings.TrimSpace(remaining[:loc[0]] + " " + remaining[loc[1]:])
		remaining = whitespaceRE.ReplaceAllString(remaining, " ")
	}
	return flags, remaining
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func extractIngredientsFromText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, pat := range ingredientQueryPatterns {
		loc := pat.FindStringSubmatchIndex(text)
		if loc != nil {
			return splitIngredients(strings.TrimSpace(text[loc[2]:loc[3]]))
		}
	}
	cleaned := cleanForIngredients(text)
	if cleaned != "" {
		return splitIngredients(cleaned)
	}
	return nil
}

var punctRE = regexp.MustCompile(`[?!]+`)
var andRE = regexp.MustCompile(`(?i)\s+(?:and|&)\s+`)
var orRE = regexp.MustCompile(`(?i)\s+or\s+`)
var withRE = regexp.MustCompile(`(?i)^(.+?)\s+with\s+(.+)$`)

var ingredientStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "some": true, "any": true, "this": true,
	"that": true, "it": true, "for": true, "me": true, "my": true, "in": true,
	"on": true, "to": true,
}

// splitIngredients splits ingredient text into a deduplicated list,
// preserving "X with Y" when X is a known product/container word and
// otherwise treating "with" as a conjunction.
func splitIngredients(text string) []string {
	t := strings.TrimSpace(punctRE.ReplaceAllString(text, ""))
	t = andRE.ReplaceAllString(t, ", ")
	t = orRE.ReplaceAllString(t, ", ")

	var result []string
	seen := make(map[string]bool)

	for _, chunk := range strings.Split(t, ",") {
		chunk = strings.TrimRight(strings.TrimSpace(chunk), ".")
		if len(chunk) < 2 {
			continue
		}
		words := strings.Fields(strings.ToLower(chunk))
		if allStopwords(words) {
			continue
		}

		if m := withRE.FindStringSubmatch(chunk); m != nil {
			left := strings.TrimSpace(m[1])
			right := strings.TrimSpace(m[2])
			if productContainerWords[strings.ToLower(left)] {
				key := strings.ToLower(strings.TrimSpace(chunk))
				if !seen[key] {
					seen[key] = true
					result = append(result, chunk)
				}
			} else {
				for _, part := range []string{left, right} {
					key := strings.ToLower(strings.TrimSpace(part))
					if !seen[key] && len(part) >= 2 {
						pw := strings.Fields(strings.ToLower(part))
						if !allStopwords(pw) {
							seen[key] = true
							result = append(result, part)
						}
					}
				}
			}
			continue
		}

		key := strings.ToLower(strings.TrimSpace(chunk))
		if !seen[key] {
			seen[key] = true
			result = append(result, chunk)
		}
	}
	return result
}

func allStopwords(words []string) bool {
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !ingredientStopwords[w] {
			return false
		}
	}
	return true
}

var greetingPrefixRE = mustCompile(`^(?:hi|hello|hey|please|kindly)\s*,?\s*`)
var politeCheckRE = mustCompile(`\b(?:please|kindly|could\s+you|would\s+you|can\s+you)\s+(?:check|tell\s+me|let\s+me\s+know)\s*`)
var forMeRE = mustCompile(`\bfor\s+(?:me|my\s+\w+)\b`)
var trailingQuestionRE = regexp.MustCompile(`\s*\?+\s*$`)
var rejectVerbsRE = mustCompile(`\b(?:think|know|explain|describe|tell|help|find|suggest|recommend|brainstorm|alternative|substitute|replace|instead|option|recipe)\b`)
var rejectConversationalRE = mustCompile(`^(?:how\s+are\s+you|how'?s?\s+it\s+going|how\s+do\s+you\s+do|thank|thanks|bye|goodbye|ok|okay|cool|nice|great|awesome|yes|no|yep|yeah|sure|nah)\b`)

// cleanForIngredients strips conversational fluff from text and
// returns empty if nothing ingredient-like remains.
func cleanForIngredients(text string) string {
	t := strings.TrimSpace(text)
	t = greetingPrefixRE.ReplaceAllString(t, "")
	t = politeCheckRE.ReplaceAllString(t, "")
	t = forMeRE.ReplaceAllString(t, "")
	t = trailingQuestionRE.ReplaceAllString(t, "")
	t = strings.TrimSpace(whitespaceRE.ReplaceAllString(t, " "))
	if rejectVerbsRE.MatchString(t) {
		return ""
	}
	if rejectConversationalRE.MatchString(t) {
		return ""
	}
	return t
}

func filterDietNames(ingredients []string) []string {
	if len(ingredients) == 0 {
		return ingredients
	}
	dietNames := allDietNamesLower()
	out := ingredients[:0:0]
	for _, i := range ingredients {
		if !dietNames[strings.ToLower(strings.TrimSpace(i))] {
			out = append(out, i)
		}
	}
	return out
}

// Detect parses a natural language query into structured intent.
//
// Examples:
//
//	"I am Jain can I eat eggs?"   → MIXED, dietary_preference=Jain, ingredients=[eggs]
//	"Is cheese okay?"             → INGREDIENT_QUERY, ingredients=[cheese]
//	"I follow a vegan diet"       → PROFILE_UPDATE, dietary_preference=Vegan
//	"Hello"                       → GREETING
//	"eggs, milk, flour"           → INGREDIENT_QUERY, ingredients=[eggs, milk, flour]
func Detect(query string) ParsedIntent {
	query = strings.TrimSpace(query)
	if query == "" {
		return ParsedIntent{Intent: GeneralQuestion, OriginalQuery: query}
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "/update") {
		return ParsedIntent{Intent: ProfileUpdate, OriginalQuery: query}
	}

	if greetingRE.MatchString(query) {
		return ParsedIntent{Intent: Greeting, OriginalQuery: query}
	}
	if conversationalRE.MatchString(query) {
		return ParsedIntent{Intent: Greeting, OriginalQuery: query}
	}

	for i, pat := range thirdPersonPatterns {
		m := pat.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		var dietRaw, ingredientRaw string
		if thirdPersonIngredientFirst[i] {
			ingredientRaw, dietRaw = m[1], m[2]
		} else {
			dietRaw, ingredientRaw = m[1], m[2]
		}
		canonical, ok := lookupDiet(dietRaw)
		if !ok {
			continue
		}
		ings := splitIngredients(strings.TrimSpace(ingredientRaw))
		if len(ings) > 0 {
			return ParsedIntent{
				Intent:         Mixed,
				ProfileUpdates: ProfileUpdates{DietaryPreference: canonical},
				Ingredients:    ings,
				OriginalQuery:  query,
			}
		}
	}

	var updates ProfileUpdates
	dietName, remaining := extractDiet(query)
	if dietName != "" {
		updates.DietaryPreference = dietName
	}
	allergens, remaining2 := extractAllergens(remaining)
	if len(allergens) > 0 {
		updates.Allergens = allergens
	}
	removals, remaining3 := extractAllergenRemovals(remaining2)
	if len(removals) > 0 {
		updates.RemoveAllergens = removals
	}
	lifestyleFlags, remaining4 := extractLifestyle(remaining3)
	if len(lifestyleFlags) > 0 {
		updates.Lifestyle = lifestyleFlags
	}
	remaining = remaining4

	isGeneral := false
	for _, pat := range generalQuestionPatterns {
		if pat.MatchString(query) {
			isGeneral = true
			break
		}
	}

	var ingredients []string
	if !isGeneral {
		ingredients = extractIngredientsFromText(remaining)
		if len(ingredients) == 0 && remaining != query && updates.isEmpty() {
			ingredients = extractIngredientsFromText(query)
		}
	}
	ingredients = filterDietNames(ingredients)

	hasProfile := !updates.isEmpty()
	hasIngredients := len(ingredients) > 0

	var result Intent
	switch {
	case hasProfile && hasIngredients:
		result = Mixed
	case hasProfile:
		result = ProfileUpdate
	case hasIngredients:
		result = IngredientQuery
	case isGeneral:
		result = GeneralQuestion
	default:
		fallback := filterDietNames(extractIngredientsFromText(query))
		if len(fallback) > 0 {
			return ParsedIntent{Intent: IngredientQuery, Ingredients: fallback, OriginalQuery: query}
		}
		if viaProse := filterDietNames(extractIngredientsViaProse(query)); len(viaProse) > 0 {
			return ParsedIntent{Intent: IngredientQuery, Ingredients: viaProse, OriginalQuery: query}
		}
		result = GeneralQuestion
	}

	return ParsedIntent{
		Intent:         result,
		ProfileUpdates: updates,
		Ingredients:    ingredients,
		OriginalQuery:  query,
	}
}
