package externalapi

import (
	"regexp"
	"strings"
)

// plantOverridePatterns are plant-based product names that contain a
// misleading animal keyword ("peanut butter", "almond milk") and must
// not be classified as dairy/meat on keyword match alone.
var plantOverridePatterns = []string{
	"peanut butter", "almond butter", "cashew butter", "sunflower butter",
	"cocoa butter", "shea butter", "apple butter", "body butter",
	"almond milk", "oat milk", "soy milk", "rice milk", "coconut milk",
	"cashew milk", "hemp milk", "flax milk",
	"coconut cream", "coconut yogurt", "coconut cheese",
	"vegan cheese", "vegan butter", "vegan cream", "vegan egg",
	"tofu", "tempeh", "seitan", "jackfruit", "nutritional yeast",
	"plant-based", "plant based", "meatless", "dairy-free", "dairy free",
	"eggplant", "egg plant", "egusi",
	"butternut", "buttercup squash", "butterbean", "butter bean", "butterscotch",
	"cream of tartar", "creamed corn", "cream soda",
}

func isPlantOverride(text string) bool {
	t := strings.ToLower(text)
	for _, p := range plantOverridePatterns {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

func wordMatch(text, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(text)
}

// classifiedFlags is the subset of ontology.Ingredient fields that
// external connectors can plausibly infer from free text, category, or
// tag data. Each connector builds one of these and copies it onto an
// ontology.Ingredient.
type classifiedFlags struct {
	AnimalOrigin  bool
	PlantOrigin   bool
	DairySource   bool
	EggSource     bool
	GlutenSource  bool
	SoySource     bool
	NutSource     string
	SesameSource  bool
	AlcoholPct    *float64
	OnionSource   bool
	GarlicSource  bool
	RootVegetable bool
}

var animalKeywords = []string{"meat", "beef", "pork", "chicken", "fish", "gelatin", "lard", "tallow", "animal", "whey", "casein", "rennet"}
var dairyKeywords = []string{"milk", "cheese", "whey", "cream", "butter", "dairy", "lactose", "casein", "ghee", "curd", "yogurt"}
var glutenKeywords = []string{"wheat", "barley", "rye", "gluten"}
var alcoholKeywords = []string{"alcohol", "wine", "beer", "spirit", "rum", "vodka", "whiskey"}
var rootVegKeywords = []string{"potato", "carrot", "beet", "radish", "turnip", "yam"}
var treeNutKeywords = []string{"almond", "walnut", "cashew", "pecan", "hazelnut", "macadamia", "pistachio"}

// classifyFromText infers flags purely from combined description/category
// text, the fallback path used when no structured category or tag data
// narrows things down. Both connectors share this core since the
// reference implementation's keyword lists were identical.
func classifyFromText(t string) classifiedFlags {
	t = strings.ToLower(t)
	override := isPlantOverride(t)

	animalOrigin := !override && anyWordMatch(t, animalKeywords)
	plantOrigin := !animalOrigin

	dairySource := !override && anyWordMatch(t, dairyKeywords)
	eggSource := !override && wordMatch(t, "egg") && !strings.Contains(t, "eggplant") && !strings.Contains(t, "egg plant")

	var nutSource string
	switch {
	case wordMatch(t, "peanut"):
		nutSource = "peanut"
	case anyWordMatch(t, treeNutKeywords):
		nutSource = "tree_nut"
	}

	var alcoholPct *float64
	if anyWordMatch(t, alcoholKeywords) {
		v := 1.0
		alcoholPct = &v
	}

	return classifiedFlags{
		AnimalOrigin:  animalOrigin,
		PlantOrigin:   plantOrigin,
		DairySource:   dairySource,
		EggSource:     eggSource,
		GlutenSource:  anyWordMatch(t, glutenKeywords),
		SoySource:     wordMatch(t, "soy") || wordMatch(t, "soybean") || wordMatch(t, "tofu") || wordMatch(t, "tempeh"),
		NutSource:     nutSource,
		SesameSource:  wordMatch(t, "sesame"),
		AlcoholPct:    alcoholPct,
		OnionSource:   wordMatch(t, "onion") && !override,
		GarlicSource:  wordMatch(t, "garlic") && !override,
		RootVegetable: anyWordMatch(t, rootVegKeywords),
	}
}

func anyWordMatch(t string, words []string) bool {
	for _, w := range words {
		if wordMatch(t, w) {
			return true
		}
	}
	return false
}

func normalizeID(name string) string {
	re := regexp.MustCompile(`[^a-z0-9]+`)
	s := re.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unknown"
	}
	return s
}
